package application

import (
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
)

// Summary is the status view over the context document.
type Summary struct {
	Project      string          `json:"project"`
	Version      string          `json:"version"`
	Created      string          `json:"created"`
	Updated      string          `json:"updated"`
	SessionCount int             `json:"session_count"`
	Current      *domain.Session `json:"current,omitempty"`
}

// FormatEntry reports the serialized footprint of one format. Tokens is the
// usual rough estimate of one token per four bytes; Reduction is the percent
// saved against the readable v1 baseline.
type FormatEntry struct {
	Label     string
	Bytes     int64
	Tokens    int64
	Reduction float64
}

type Comparison struct {
	Entries []FormatEntry
}

type PackResult struct {
	Warnings   []layered.Warning
	Comparison Comparison
}

type UnpackResult struct {
	Path     string
	Warnings []layered.Warning
}

func formatEntry(label string, size, baseline int64) FormatEntry {
	entry := FormatEntry{Label: label, Bytes: size, Tokens: size / 4}
	if baseline > 0 {
		entry.Reduction = (1 - float64(size)/float64(baseline)) * 100
	}

	return entry
}
