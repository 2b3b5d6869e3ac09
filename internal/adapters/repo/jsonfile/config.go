package jsonfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

type configSchema struct {
	Context contextConfigSchema `toml:"context"`
}

type contextConfigSchema struct {
	Dir         string `toml:"dir"`
	File        string `toml:"file"`
	ArchiveFile string `toml:"archive_file"`
	CompactFile string `toml:"compact_file"`
}

// WriteDefaultConfig materializes a .sctx.toml with the default file layout
// in dir so the paths can be edited by hand. It refuses to clobber an
// existing config.
func WriteDefaultConfig(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, configName+"."+configType)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config file: %w", err)
	}

	data, err := toml.Marshal(configSchema{Context: contextConfigSchema{
		Dir:         ".",
		File:        defaultContextFile,
		ArchiveFile: defaultArchiveFile,
		CompactFile: defaultCompactFile,
	}})
	if err != nil {
		return "", fmt.Errorf("encode config file: %w", err)
	}

	if err := os.WriteFile(path, data, contextFileMode); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}

	return path, nil
}
