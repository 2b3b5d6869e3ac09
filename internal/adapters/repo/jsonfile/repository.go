package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/session-ctx-cli/internal/compact"
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/bnema/session-ctx-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	configName      = ".sctx"
	configType      = "toml"
	contextDirKey   = "context.dir"
	contextFileKey  = "context.file"
	archiveFileKey  = "context.archive_file"
	compactFileKey  = "context.compact_file"
	contextFileMode = 0o600
	contextDirMode  = 0o700
	tempFilePattern = ".session-ctx-*.json.tmp"

	defaultContextFile  = ".session-ctx.json"
	defaultArchiveFile  = ".session-ctx.v2.json"
	defaultCompactFile  = ".session-ctx.min.json"
	defaultRestoredFile = ".session-ctx.v1-from-v2.json"
)

// Repository stores the readable document and its two archive renditions as
// sibling files inside the configured context directory.
type Repository struct {
	contextPath  string
	archivePath  string
	compactPath  string
	restoredPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.DocumentRepository = (*Repository)(nil)
	_ ports.ArchiveRepository  = (*Repository)(nil)
	_ ports.DocumentEncoder    = (*Repository)(nil)
)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	cfg.SetDefault(contextDirKey, ".")
	cfg.SetDefault(contextFileKey, defaultContextFile)
	cfg.SetDefault(archiveFileKey, defaultArchiveFile)
	cfg.SetDefault(compactFileKey, defaultCompactFile)

	err := cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	dir, err := normalizeContextDir(cfg.GetString(contextDirKey))
	if err != nil {
		return nil, err
	}

	return &Repository{
		contextPath:  filepath.Join(dir, cfg.GetString(contextFileKey)),
		archivePath:  filepath.Join(dir, cfg.GetString(archiveFileKey)),
		compactPath:  filepath.Join(dir, cfg.GetString(compactFileKey)),
		restoredPath: filepath.Join(dir, defaultRestoredFile),
		mu:           lockForPath(dir),
	}, nil
}

func (r *Repository) Load(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.contextPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, domain.ErrContextNotFound
		}
		return domain.Document{}, fmt.Errorf("read context file: %w", err)
	}

	var file documentSchema
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.Document{}, fmt.Errorf("decode context file: %w", err)
	}

	return fromSchema(file), nil
}

func (r *Repository) Save(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeDocument(r.contextPath, doc)
}

func (r *Repository) SaveTo(ctx context.Context, doc domain.Document, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		path = r.restoredPath
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeDocument(path, doc); err != nil {
		return "", err
	}

	return path, nil
}

func (r *Repository) LoadLayered(ctx context.Context) (layered.Archive, error) {
	if err := ctx.Err(); err != nil {
		return layered.Archive{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.archivePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return layered.Archive{}, domain.ErrArchiveNotFound
		}
		return layered.Archive{}, fmt.Errorf("read archive file: %w", err)
	}

	var archive layered.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return layered.Archive{}, fmt.Errorf("decode archive file: %w", err)
	}

	return archive, nil
}

func (r *Repository) SaveLayered(ctx context.Context, archive layered.Archive, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !overwrite {
		if _, err := os.Stat(r.archivePath); err == nil {
			return domain.ErrArchiveExists
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat archive file: %w", err)
		}
	}

	// Archives stay minified; the byte savings are the whole point.
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("encode archive file: %w", err)
	}

	return writeFileAtomic(r.archivePath, data)
}

func (r *Repository) LoadCompact(ctx context.Context) (compact.Archive, error) {
	if err := ctx.Err(); err != nil {
		return compact.Archive{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.compactPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return compact.Archive{}, domain.ErrArchiveNotFound
		}
		return compact.Archive{}, fmt.Errorf("read compact file: %w", err)
	}

	var archive compact.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return compact.Archive{}, fmt.Errorf("decode compact file: %w", err)
	}

	return archive, nil
}

func (r *Repository) SaveCompact(ctx context.Context, archive compact.Archive) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("encode compact file: %w", err)
	}

	return writeFileAtomic(r.compactPath, data)
}

func (r *Repository) Sizes(ctx context.Context) (ports.FormatSizes, error) {
	if err := ctx.Err(); err != nil {
		return ports.FormatSizes{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sizes := ports.FormatSizes{}
	for _, entry := range []struct {
		path string
		dst  **int64
	}{
		{r.contextPath, &sizes.Document},
		{r.archivePath, &sizes.Layered},
		{r.compactPath, &sizes.Compact},
	} {
		info, err := os.Stat(entry.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return ports.FormatSizes{}, fmt.Errorf("stat %s: %w", entry.path, err)
		}
		size := info.Size()
		*entry.dst = &size
	}

	return sizes, nil
}

// EncodeDocument renders the v1 file layout in memory, pretty-printed the
// way Save writes it or minified.
func (r *Repository) EncodeDocument(doc domain.Document, pretty bool) ([]byte, error) {
	if pretty {
		data, err := json.MarshalIndent(toSchema(doc), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		return data, nil
	}

	data, err := json.Marshal(toSchema(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func (r *Repository) writeDocument(path string, doc domain.Document) error {
	data, err := r.EncodeDocument(doc, true)
	if err != nil {
		return fmt.Errorf("encode context file: %w", err)
	}

	return writeFileAtomic(path, append(data, '\n'))
}

func normalizeContextDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve context directory: %w", err)
	}

	return filepath.Clean(absDir), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, contextDirMode); err != nil {
		return fmt.Errorf("create context directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp context file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp context file: %w", err)
	}

	if err := tempFile.Chmod(contextFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp context file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp context file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace context file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(path, contextFileMode); err != nil {
		return fmt.Errorf("chmod context file: %w", err)
	}

	return nil
}
