package application

import (
	"context"
	"testing"

	"github.com/bnema/session-ctx-cli/internal/compact"
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRepo(t *testing.T) *memRepo {
	t.Helper()

	repo := &memRepo{}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.StartSession(ctx, "setup_backend", "")
	require.NoError(t, err)
	_, err = service.AddDecision(ctx, "postgresql", "relational_integrity", []string{"mongodb"}, nil)
	require.NoError(t, err)
	require.NoError(t, service.UpdateFile(ctx, "src/db.go", domain.FileChange{
		Action: domain.ActionCreated,
		Role:   "database_layer",
		Status: domain.StatusComplete,
	}))

	return repo
}

func TestPackWritesArchiveAndComparison(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	service := NewConvertService(repo, repo)

	result, err := service.Pack(context.Background(), false)
	require.NoError(t, err)

	require.NotNil(t, repo.archive)
	assert.Equal(t, layered.ArchiveVersion, repo.archive.Version)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Comparison.Entries)
}

func TestPackRefusesToOverwriteWithoutForce(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	service := NewConvertService(repo, repo)
	ctx := context.Background()

	_, err := service.Pack(ctx, false)
	require.NoError(t, err)

	_, err = service.Pack(ctx, false)
	assert.ErrorIs(t, err, domain.ErrArchiveExists)

	_, err = service.Pack(ctx, true)
	assert.NoError(t, err)
}

func TestPackWithoutContextFails(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	service := NewConvertService(repo, repo)

	_, err := service.Pack(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestUnpackRestoresDocumentToSiblingPath(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	original := *repo.doc
	service := NewConvertService(repo, repo)
	ctx := context.Background()

	_, err := service.Pack(ctx, false)
	require.NoError(t, err)

	result, err := service.Unpack(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, ".session-ctx.v1-from-v2.json", result.Path)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, original, repo.restored[result.Path])
	// The configured v1 file is untouched.
	assert.Equal(t, original, *repo.doc)
}

func TestUnpackWithoutArchiveFails(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	service := NewConvertService(repo, repo)

	_, err := service.Unpack(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrArchiveNotFound)
}

func TestMinifyExpandRoundTrip(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	original := *repo.doc
	service := NewConvertService(repo, repo)
	ctx := context.Background()

	require.NoError(t, service.Minify(ctx))
	require.NotNil(t, repo.minified)
	assert.Equal(t, compact.Minify(original), *repo.minified)

	doc, err := service.Expand(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, doc)
	assert.Equal(t, original, *repo.doc)
}

func TestCompareReportsOnlyExistingRenditions(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	service := NewConvertService(repo, repo)
	ctx := context.Background()

	comparison, err := service.Compare(ctx)
	require.NoError(t, err)
	require.Len(t, comparison.Entries, 1)
	assert.Equal(t, "v1 document", comparison.Entries[0].Label)
	assert.Zero(t, comparison.Entries[0].Reduction)

	_, err = service.Pack(ctx, false)
	require.NoError(t, err)
	require.NoError(t, service.Minify(ctx))

	comparison, err = service.Compare(ctx)
	require.NoError(t, err)
	require.Len(t, comparison.Entries, 3)
	assert.Equal(t, []string{"v1 document", "compact", "layered archive"}, []string{
		comparison.Entries[0].Label,
		comparison.Entries[1].Label,
		comparison.Entries[2].Label,
	})
	for _, entry := range comparison.Entries {
		assert.Equal(t, entry.Bytes/4, entry.Tokens)
	}
}
