package ports

import (
	"context"

	"github.com/bnema/session-ctx-cli/internal/compact"
	"github.com/bnema/session-ctx-cli/internal/layered"
)

type ArchiveRepository interface {
	LoadLayered(ctx context.Context) (layered.Archive, error)
	SaveLayered(ctx context.Context, archive layered.Archive, overwrite bool) error
	LoadCompact(ctx context.Context) (compact.Archive, error)
	SaveCompact(ctx context.Context, archive compact.Archive) error
	Sizes(ctx context.Context) (FormatSizes, error)
}

// FormatSizes reports on-disk byte sizes per format; a nil entry means the
// file does not exist.
type FormatSizes struct {
	Document *int64
	Layered  *int64
	Compact  *int64
}
