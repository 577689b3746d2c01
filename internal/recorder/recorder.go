package recorder

import "time"

// ExchangeEvent records the outcome of one submission cycle. It holds no
// report content.
type ExchangeEvent struct {
	RequestID   string
	Period      string
	Scope       string
	ProductID   string
	FileName    string
	Outcome     string // "success", "rejected", "server_rejected", "transport_failure", "canceled", "malformed"
	ErrorText   string
	StatusCode  int
	Predictions int
	HighStock   int
	Duration    time.Duration
}

// ExportEvent records a written export document.
type ExportEvent struct {
	RequestID   string
	DocumentID  string
	Format      string
	Path        string
	Predictions int
}

// Recorder persists an audit trail of forecast exchanges and exports.
type Recorder interface {
	RecordExchange(evt *ExchangeEvent) error
	RecordExport(evt *ExportEvent) error
	Close() error
}
