package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FindingRow is the COPY-ready representation of a persisted finding.
type FindingRow struct {
	RunID    uuid.UUID
	Signal   string
	NPI      string
	Severity string
	Evidence []byte // JSON
}

// findingColumns returns the COPY column order for fraud.findings.
func findingColumns() []string {
	return []string{"run_id", "signal_type", "npi", "severity", "evidence"}
}

// ChannelSource implements pgx.CopyFromSource by reading FindingRows from a
// channel. This provides natural backpressure between report traversal and
// the COPY writer.
type ChannelSource struct {
	ch      <-chan *FindingRow
	current *FindingRow
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *FindingRow) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return []any{
		s.current.RunID,
		s.current.Signal,
		s.current.NPI,
		s.current.Severity,
		s.current.Evidence,
	}, nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource) Err() error {
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource)(nil)
