package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	SourceError     = 3
	ScanError       = 4
	DBConnError     = 5
	StoreError      = 6
)
