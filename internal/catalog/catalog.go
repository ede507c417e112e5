// Package catalog defines the assessment domain model, the test-type taxonomy,
// and the data access interface for the scraped catalog.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Support values for the remote/adaptive capability fields as scraped.
// An empty string means the catalog page did not mark the capability
// either way; downstream rendering collapses that to "No".
const (
	SupportYes = "Yes"
	SupportNo  = "No"
)

// Assessment is the canonical catalog record. It is created by the scrape and
// enrichment jobs and is immutable at query time.
type Assessment struct {
	ID              uuid.UUID
	Name            string
	Link            string
	Description     string
	Duration        string // free-form, e.g. "40 minutes", as scraped
	DurationMinutes int    // best-effort parse of Duration, 0 when unknown
	JobLevels       string
	RemoteSupport   string
	AdaptiveSupport string
	TestType        string // concatenated taxonomy codes, e.g. "KP"
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmbeddingText returns the text that is embedded for similarity search.
func (a *Assessment) EmbeddingText() string {
	return a.Name + ". " + a.Description
}

// AssessmentRepository defines operations for catalog persistence
type AssessmentRepository interface {
	// Upsert inserts or updates assessments, keyed by Link.
	Upsert(ctx context.Context, assessments []*Assessment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)

	// List returns assessments ordered by name with pagination.
	List(ctx context.Context, limit, offset int) ([]*Assessment, error)

	// ListUntagged returns assessments that have not been through tag
	// enrichment yet.
	ListUntagged(ctx context.Context, limit int) ([]*Assessment, error)

	UpdateTags(ctx context.Context, id uuid.UUID, tags []string) error

	Count(ctx context.Context) (int, error)
}
