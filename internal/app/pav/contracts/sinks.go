package contracts

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// NoteSink records activity stream notes.
type NoteSink interface {
	Create(ctx context.Context, tx committer.Tx, note *domain.Note) error
}

// FileMover relocates uploaded files out of temporary storage.
type FileMover interface {
	MoveFromTmp(ctx context.Context, tx committer.Tx, fileID string) error
}
