package store

import (
	"context"
	"time"
)

// Store persists analysis reports so earlier runs can be listed and reopened.
type Store interface {
	Close() error

	SaveReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, bool, error)
	// ListReports returns reports newest first. An empty kind matches every
	// kind; limit <= 0 means the store's default.
	ListReports(ctx context.Context, kind Kind, limit int) ([]Report, error)
}

// DefaultListLimit applies when ListReports is called without a limit.
const DefaultListLimit = 20

// Kind identifies which analysis produced a report.
type Kind string

const (
	KindDistance   Kind = "distance"
	KindProfile    Kind = "profile"
	KindTypicality Kind = "typicality"
)

// Report is the stored outcome of one analysis run.
type Report struct {
	ID        string // ULID, sortable by creation time
	Kind      Kind
	Subject   string // reference language id or region id
	CreatedAt time.Time
	Meta      map[string]string // run parameters such as scoring or classifier
	Rows      []Row
}

// Row is one ranked line of a report. For distance and typicality reports
// Key is a language id; for profiles it is a parameter id.
type Row struct {
	Key     string
	Label   string
	Value   float64
	Matches int
	Total   int
}
