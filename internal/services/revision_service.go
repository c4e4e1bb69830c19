package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mirascope/mirascope-cli/internal/database"
	sqldb "github.com/mirascope/mirascope-cli/internal/database/sqlc"
)

// ErrNotFound is returned when a requested revision is not indexed.
var ErrNotFound = fmt.Errorf("revision not indexed: %w", database.ErrNotFound)

// RevisionService exposes the revision index using sqlc-generated queries.
type RevisionService struct {
	ctx *database.Context
	now func() time.Time
}

// NewRevisionService creates a new RevisionService.
func NewRevisionService(ctx *database.Context) *RevisionService {
	return &RevisionService{
		ctx: ctx,
		now: time.Now,
	}
}

// RecordInput describes a revision that was just written to disk.
type RecordInput struct {
	Prompt     string
	Revision   int64
	FilePath   string
	Hash       string
	SourceHash string
	Message    *string
	Branch     *string
}

// Record stores the metadata of a revision. Recording an already indexed
// revision replaces its metadata.
func (s *RevisionService) Record(ctx context.Context, input RecordInput) (*database.RevisionRecord, error) {
	var record database.RevisionRecord
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.UpsertRevision(txCtx, sqldb.UpsertRevisionParams{
			Prompt:     input.Prompt,
			Revision:   input.Revision,
			FilePath:   input.FilePath,
			Hash:       input.Hash,
			SourceHash: input.SourceHash,
			Message:    database.NullString(input.Message),
			Branch:     database.NullString(input.Branch),
			CreatedAt:  s.now().UTC(),
		}); err != nil {
			return err
		}

		row, err := q.GetRevision(txCtx, sqldb.GetRevisionParams{
			Prompt:   input.Prompt,
			Revision: input.Revision,
		})
		if err != nil {
			return err
		}
		record = database.RevisionRecordFromRow(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Get retrieves the metadata of one revision.
func (s *RevisionService) Get(ctx context.Context, prompt string, revision int64) (*database.RevisionRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.GetRevision(ctx, sqldb.GetRevisionParams{
		Prompt:   prompt,
		Revision: revision,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	record := database.RevisionRecordFromRow(row)
	return &record, nil
}

// List returns every indexed revision of a prompt keyed by revision number.
func (s *RevisionService) List(ctx context.Context, prompt string) (map[int64]database.RevisionRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListRevisionsByPrompt(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]database.RevisionRecord, len(rows))
	for _, row := range rows {
		result[row.Revision] = database.RevisionRecordFromRow(row)
	}
	return result, nil
}

// LatestIndexed returns the highest indexed revision number of a prompt, or 0.
func (s *RevisionService) LatestIndexed(ctx context.Context, prompt string) (int64, error) {
	q, err := s.queries()
	if err != nil {
		return 0, err
	}
	return q.MaxRevisionForPrompt(ctx, prompt)
}

func (s *RevisionService) withTx(ctx context.Context, fn func(context.Context, *sqldb.Queries) error) error {
	if s.ctx == nil || s.ctx.DB == nil {
		return fmt.Errorf("revision service: missing database context")
	}

	tx, err := s.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	queries := sqldb.New(tx)

	if err := fn(ctx, queries); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return nil
}

func (s *RevisionService) queries() (*sqldb.Queries, error) {
	if s.ctx == nil {
		return nil, fmt.Errorf("revision service: missing database context")
	}
	if s.ctx.Queries == nil {
		if s.ctx.DB == nil {
			return nil, fmt.Errorf("revision service: database handle not initialised")
		}
		s.ctx.Queries = sqldb.New(s.ctx.DB)
	}
	return s.ctx.Queries, nil
}
