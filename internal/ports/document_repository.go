package ports

import (
	"context"

	"github.com/bnema/session-ctx-cli/internal/domain"
)

type DocumentRepository interface {
	Load(ctx context.Context) (domain.Document, error)
	Save(ctx context.Context, doc domain.Document) error

	// SaveTo writes the document to an explicit path instead of the
	// configured context file and reports the path written. An empty path
	// selects a sibling default so the original v1 file is never clobbered
	// by accident.
	SaveTo(ctx context.Context, doc domain.Document, path string) (string, error)
}
