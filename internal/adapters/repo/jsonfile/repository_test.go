package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()

	dir := t.TempDir()
	config := viper.New()
	config.Set("context.dir", dir)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	return repo, dir
}

func testDocument() domain.Document {
	return domain.Document{
		Version: domain.DocumentVersion,
		Project: "demo",
		Created: "2025-01-01T10:00:00Z",
		Updated: "2025-01-02T10:00:00Z",
		Sessions: []domain.Session{{
			ID:    "s1",
			Start: "2025-01-01T10:00:00Z",
			End:   "",
			Goal:  "bootstrap",
			State: domain.SessionInProgress,
			Decisions: []domain.Decision{{
				ID:           "d1",
				What:         "json_files",
				Why:          "diffable",
				Alternatives: []string{"sqlite"},
				Impact:       []string{"internal/adapters"},
			}},
			Files: map[string]domain.FileChange{
				"main.go": {
					Action: domain.ActionCreated,
					Role:   "entrypoint",
					Deps:   []string{},
					Status: domain.StatusComplete,
				},
			},
			Patterns:  map[string]string{},
			Blockers:  []domain.Blocker{},
			NextSteps: []string{"wire_cli"},
			KV:        map[string]string{},
		}},
	}
}

func TestRepositoryDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)
	doc := testDocument()

	require.NoError(t, repo.Save(context.Background(), doc))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRepositoryLoadMissingContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestRepositoryOpenSessionEndIsNullOnDisk(t *testing.T) {
	t.Parallel()

	repo, dir := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), testDocument()))

	data, err := os.ReadFile(filepath.Join(dir, defaultContextFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"end": null`)
}

func TestRepositorySaveToDefaultsToRestoredPath(t *testing.T) {
	t.Parallel()

	repo, dir := newTestRepository(t)

	path, err := repo.SaveTo(context.Background(), testDocument(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, defaultRestoredFile), path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRepositoryLayeredRoundTripAndOverwriteGuard(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)
	archive, _ := layered.Encode(testDocument())

	require.NoError(t, repo.SaveLayered(context.Background(), archive, false))

	err := repo.SaveLayered(context.Background(), archive, false)
	assert.ErrorIs(t, err, domain.ErrArchiveExists)

	require.NoError(t, repo.SaveLayered(context.Background(), archive, true))

	got, err := repo.LoadLayered(context.Background())
	require.NoError(t, err)
	assert.Equal(t, archive, got)
}

func TestRepositoryArchiveIsMinified(t *testing.T) {
	t.Parallel()

	repo, dir := newTestRepository(t)
	archive, _ := layered.Encode(testDocument())
	require.NoError(t, repo.SaveLayered(context.Background(), archive, false))

	data, err := os.ReadFile(filepath.Join(dir, defaultArchiveFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "v")
	assert.Contains(t, raw, "strings")
}

func TestRepositoryLoadMissingArchive(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	_, err := repo.LoadLayered(context.Background())
	assert.ErrorIs(t, err, domain.ErrArchiveNotFound)

	_, err = repo.LoadCompact(context.Background())
	assert.ErrorIs(t, err, domain.ErrArchiveNotFound)
}

func TestRepositorySizesReportsOnlyExistingFiles(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), testDocument()))

	sizes, err := repo.Sizes(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sizes.Document)
	assert.Positive(t, *sizes.Document)
	assert.Nil(t, sizes.Layered)
	assert.Nil(t, sizes.Compact)
}

func TestRepositoryContextFileMode(t *testing.T) {
	t.Parallel()

	repo, dir := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), testDocument()))

	info, err := os.Stat(filepath.Join(dir, defaultContextFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(contextFileMode), info.Mode().Perm())
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path, err := WriteDefaultConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".sctx.toml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[context]")
	assert.Contains(t, string(data), defaultContextFile)

	_, err = WriteDefaultConfig(dir)
	assert.Error(t, err)
}
