package storage

import (
	"context"

	"auxesis/internal/model"
)

// Store persists sessions, their genome records and their innovation
// journals. Genomes and innovations are scoped to a session id.
type Store interface {
	Init(ctx context.Context) error
	SaveSession(ctx context.Context, session model.SessionRecord) error
	GetSession(ctx context.Context, id string) (model.SessionRecord, bool, error)
	ListSessions(ctx context.Context) ([]string, error)
	SaveGenome(ctx context.Context, sessionID string, genome model.GenomeRecord) error
	GetGenome(ctx context.Context, sessionID string, genomeID int) (model.GenomeRecord, bool, error)
	ListGenomeIDs(ctx context.Context, sessionID string) ([]int, error)
	AppendInnovations(ctx context.Context, sessionID string, records []model.InnovationRecord) error
	ListInnovations(ctx context.Context, sessionID string) ([]model.InnovationRecord, error)
}
