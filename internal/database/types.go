package database

import (
	"time"

	sqldb "github.com/mirascope/mirascope-cli/internal/database/sqlc"
)

// RevisionRecord corresponds to a row in the revisions table and stores the
// metadata recorded when a prompt revision was added.
type RevisionRecord struct {
	ID         int64
	Prompt     string
	Revision   int64
	FilePath   string
	Hash       string
	SourceHash string
	Message    *string
	Branch     *string
	CreatedAt  time.Time
}

// RevisionRecordFromRow converts a generated row into a RevisionRecord.
func RevisionRecordFromRow(row sqldb.Revision) RevisionRecord {
	return RevisionRecord{
		ID:         row.ID,
		Prompt:     row.Prompt,
		Revision:   row.Revision,
		FilePath:   row.FilePath,
		Hash:       row.Hash,
		SourceHash: row.SourceHash,
		Message:    stringPtr(row.Message),
		Branch:     stringPtr(row.Branch),
		CreatedAt:  row.CreatedAt,
	}
}
