package application

import (
	"context"
	"fmt"

	"github.com/bnema/session-ctx-cli/internal/compact"
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/bnema/session-ctx-cli/internal/ports"
)

// ConvertService moves the context between its three renditions: the
// readable v1 document, the layered archive, and the compact single-letter
// format.
type ConvertService struct {
	docs     ports.DocumentRepository
	archives ports.ArchiveRepository
}

func NewConvertService(docs ports.DocumentRepository, archives ports.ArchiveRepository) *ConvertService {
	return &ConvertService{
		docs:     docs,
		archives: archives,
	}
}

func (s *ConvertService) Pack(ctx context.Context, force bool) (PackResult, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return PackResult{}, fmt.Errorf("load context: %w", err)
	}

	archive, warnings := layered.Encode(doc)

	if err := s.archives.SaveLayered(ctx, archive, force); err != nil {
		return PackResult{}, fmt.Errorf("save archive: %w", err)
	}

	comparison, err := s.Compare(ctx)
	if err != nil {
		return PackResult{}, err
	}

	return PackResult{Warnings: warnings, Comparison: comparison}, nil
}

func (s *ConvertService) Unpack(ctx context.Context, output string) (UnpackResult, error) {
	archive, err := s.archives.LoadLayered(ctx)
	if err != nil {
		return UnpackResult{}, fmt.Errorf("load archive: %w", err)
	}

	doc, warnings, err := layered.Decode(archive)
	if err != nil {
		return UnpackResult{}, fmt.Errorf("decode archive: %w", err)
	}

	path, err := s.docs.SaveTo(ctx, doc, output)
	if err != nil {
		return UnpackResult{}, fmt.Errorf("write restored context: %w", err)
	}

	return UnpackResult{Path: path, Warnings: warnings}, nil
}

func (s *ConvertService) Minify(ctx context.Context) error {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load context: %w", err)
	}

	if err := s.archives.SaveCompact(ctx, compact.Minify(doc)); err != nil {
		return fmt.Errorf("save compact file: %w", err)
	}

	return nil
}

func (s *ConvertService) Expand(ctx context.Context) (domain.Document, error) {
	archive, err := s.archives.LoadCompact(ctx)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load compact file: %w", err)
	}

	doc := compact.Expand(archive)

	if err := s.docs.Save(ctx, doc); err != nil {
		return domain.Document{}, fmt.Errorf("save context: %w", err)
	}

	return doc, nil
}

// Compare reports on-disk sizes for whichever renditions exist, with the
// readable v1 file as the reduction baseline.
func (s *ConvertService) Compare(ctx context.Context) (Comparison, error) {
	sizes, err := s.archives.Sizes(ctx)
	if err != nil {
		return Comparison{}, fmt.Errorf("stat context files: %w", err)
	}

	baseline := int64(0)
	if sizes.Document != nil {
		baseline = *sizes.Document
	}

	comparison := Comparison{Entries: []FormatEntry{}}
	if sizes.Document != nil {
		comparison.Entries = append(comparison.Entries, formatEntry("v1 document", *sizes.Document, baseline))
	}
	if sizes.Compact != nil {
		comparison.Entries = append(comparison.Entries, formatEntry("compact", *sizes.Compact, baseline))
	}
	if sizes.Layered != nil {
		comparison.Entries = append(comparison.Entries, formatEntry("layered archive", *sizes.Layered, baseline))
	}

	return comparison, nil
}
