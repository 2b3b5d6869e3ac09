package ports

import "github.com/bnema/session-ctx-cli/internal/domain"

// DocumentEncoder serializes a document in the on-disk v1 layout without
// touching the filesystem. The benchmark uses it to measure format sizes.
type DocumentEncoder interface {
	EncodeDocument(doc domain.Document, pretty bool) ([]byte, error)
}
