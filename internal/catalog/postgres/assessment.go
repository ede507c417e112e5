package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hirewise/recommender/internal/catalog"
)

// AssessmentRepo implements catalog.AssessmentRepository
type AssessmentRepo struct {
	db *DB
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *DB) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

const assessmentColumns = `id, name, link, description, duration, duration_minutes, job_levels, remote_support, adaptive_support, test_type, tags, created_at, updated_at`

// Upsert inserts or updates assessments, keyed by link. Tags are preserved on
// conflict so a re-scrape does not wipe out prior enrichment.
func (r *AssessmentRepo) Upsert(ctx context.Context, assessments []*catalog.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range assessments {
		tagsJSON, err := json.Marshal(a.Tags)
		if err != nil {
			return fmt.Errorf("failed to marshal tags: %w", err)
		}
		batch.Queue(`
			INSERT INTO assessments (id, name, link, description, duration, duration_minutes, job_levels, remote_support, adaptive_support, test_type, tags, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			ON CONFLICT (link) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				duration = EXCLUDED.duration,
				duration_minutes = EXCLUDED.duration_minutes,
				job_levels = EXCLUDED.job_levels,
				remote_support = EXCLUDED.remote_support,
				adaptive_support = EXCLUDED.adaptive_support,
				test_type = EXCLUDED.test_type,
				updated_at = NOW()
		`, a.ID, a.Name, a.Link, a.Description, a.Duration, a.DurationMinutes,
			a.JobLevels, a.RemoteSupport, a.AdaptiveSupport, a.TestType, tagsJSON)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range assessments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert assessment: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`
	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanAssessment(row)
}

// List retrieves assessments ordered by name with pagination
func (r *AssessmentRepo) List(ctx context.Context, limit, offset int) ([]*catalog.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessments(rows)
}

// ListUntagged retrieves assessments whose tag enrichment has not run yet
func (r *AssessmentRepo) ListUntagged(ctx context.Context, limit int) ([]*catalog.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE tags = '[]'::jsonb ORDER BY name LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list untagged assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessments(rows)
}

// UpdateTags replaces the tag list for an assessment
func (r *AssessmentRepo) UpdateTags(ctx context.Context, id uuid.UUID, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	result, err := r.db.Pool.Exec(ctx,
		`UPDATE assessments SET tags = $2, updated_at = NOW() WHERE id = $1`, id, tagsJSON)
	if err != nil {
		return fmt.Errorf("failed to update tags: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Count returns the number of catalog records
func (r *AssessmentRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}
	return total, nil
}

func scanAssessment(row pgx.Row) (*catalog.Assessment, error) {
	var a catalog.Assessment
	var tagsJSON []byte

	err := row.Scan(&a.ID, &a.Name, &a.Link, &a.Description, &a.Duration, &a.DurationMinutes,
		&a.JobLevels, &a.RemoteSupport, &a.AdaptiveSupport, &a.TestType, &tagsJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if err := json.Unmarshal(tagsJSON, &a.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	return &a, nil
}

func scanAssessments(rows pgx.Rows) ([]*catalog.Assessment, error) {
	var assessments []*catalog.Assessment
	for rows.Next() {
		var a catalog.Assessment
		var tagsJSON []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Link, &a.Description, &a.Duration, &a.DurationMinutes,
			&a.JobLevels, &a.RemoteSupport, &a.AdaptiveSupport, &a.TestType, &tagsJSON,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &a.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		assessments = append(assessments, &a)
	}
	return assessments, nil
}

// Ensure AssessmentRepo implements the interface
var _ catalog.AssessmentRepository = (*AssessmentRepo)(nil)
