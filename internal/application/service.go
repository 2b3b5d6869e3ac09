package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/ports"
)

// Service owns the session lifecycle over the v1 context document. Every
// mutation is load-modify-save; the repository serializes concurrent access.
type Service struct {
	repo    ports.DocumentRepository
	clock   ports.Clock
	project string
}

func NewService(repo ports.DocumentRepository, clock ports.Clock, project string) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		repo:    repo,
		clock:   clock,
		project: project,
	}
}

// now stamps in whole seconds; the archive codec cannot carry finer
// precision anyway.
func (s *Service) now() string {
	return s.clock.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

func (s *Service) loadOrCreate(ctx context.Context) (domain.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrContextNotFound) {
			return domain.NewDocument(s.project, s.now()), nil
		}
		return domain.Document{}, fmt.Errorf("load context: %w", err)
	}

	return doc, nil
}

func (s *Service) StartSession(ctx context.Context, goal, id string) (domain.Session, error) {
	doc, err := s.loadOrCreate(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.now()
	if id == "" {
		id = fmt.Sprintf("s%d", len(doc.Sessions)+1)
	}

	session := domain.Session{
		ID:        id,
		Start:     now,
		Goal:      goal,
		State:     domain.SessionInProgress,
		Decisions: []domain.Decision{},
		Files:     map[string]domain.FileChange{},
		Patterns:  map[string]string{},
		Blockers:  []domain.Blocker{},
		NextSteps: []string{},
		KV:        map[string]string{},
	}
	doc.Sessions = append(doc.Sessions, session)
	doc.Updated = now

	if err := s.repo.Save(ctx, doc); err != nil {
		return domain.Session{}, fmt.Errorf("save context: %w", err)
	}

	return session, nil
}

func (s *Service) EndSession(ctx context.Context, state domain.SessionState) (domain.Session, error) {
	if state == "" {
		state = domain.SessionCompleted
	}

	return s.updateCurrent(ctx, func(session *domain.Session, _ *domain.Document) {
		session.End = s.now()
		session.State = state
	})
}

func (s *Service) AddDecision(ctx context.Context, what, why string, alternatives, impact []string) (domain.Decision, error) {
	var decision domain.Decision
	_, err := s.updateCurrent(ctx, func(session *domain.Session, doc *domain.Document) {
		decision = domain.Decision{
			ID:           fmt.Sprintf("d%d", countDecisions(*doc)+1),
			What:         what,
			Why:          why,
			Alternatives: stringsOrEmpty(alternatives),
			Impact:       stringsOrEmpty(impact),
		}
		session.Decisions = append(session.Decisions, decision)
	})
	if err != nil {
		return domain.Decision{}, err
	}

	return decision, nil
}

func (s *Service) UpdateFile(ctx context.Context, path string, change domain.FileChange) error {
	_, err := s.updateCurrent(ctx, func(session *domain.Session, _ *domain.Document) {
		change.Action = domain.FileActionFrom(string(change.Action))
		change.Status = domain.FileStatusFrom(string(change.Status))
		change.Deps = stringsOrEmpty(change.Deps)

		if session.Files == nil {
			session.Files = map[string]domain.FileChange{}
		}
		session.Files[path] = change
	})

	return err
}

func (s *Service) AddPattern(ctx context.Context, name, description string) error {
	_, err := s.updateCurrent(ctx, func(session *domain.Session, _ *domain.Document) {
		if session.Patterns == nil {
			session.Patterns = map[string]string{}
		}
		session.Patterns[name] = description
	})

	return err
}

func (s *Service) AddBlocker(ctx context.Context, description string) (domain.Blocker, error) {
	var blocker domain.Blocker
	_, err := s.updateCurrent(ctx, func(session *domain.Session, doc *domain.Document) {
		blocker = domain.Blocker{
			ID:     fmt.Sprintf("b%d", countBlockers(*doc)+1),
			Desc:   description,
			Status: domain.BlockerOpen,
		}
		session.Blockers = append(session.Blockers, blocker)
	})
	if err != nil {
		return domain.Blocker{}, err
	}

	return blocker, nil
}

func (s *Service) SetNextSteps(ctx context.Context, steps []string) error {
	_, err := s.updateCurrent(ctx, func(session *domain.Session, _ *domain.Document) {
		session.NextSteps = stringsOrEmpty(steps)
	})

	return err
}

func (s *Service) SetKV(ctx context.Context, key, value string) error {
	_, err := s.updateCurrent(ctx, func(session *domain.Session, _ *domain.Document) {
		if session.KV == nil {
			session.KV = map[string]string{}
		}
		session.KV[key] = value
	})

	return err
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load context: %w", err)
	}

	summary := Summary{
		Project:      doc.Project,
		Version:      doc.Version,
		Created:      doc.Created,
		Updated:      doc.Updated,
		SessionCount: len(doc.Sessions),
	}
	if current := doc.CurrentSession(); current != nil {
		copied := *current
		summary.Current = &copied
	}

	return summary, nil
}

func (s *Service) updateCurrent(ctx context.Context, apply func(session *domain.Session, doc *domain.Document)) (domain.Session, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrContextNotFound) {
			return domain.Session{}, domain.ErrNoActiveSession
		}
		return domain.Session{}, fmt.Errorf("load context: %w", err)
	}

	current := doc.CurrentSession()
	if current == nil {
		return domain.Session{}, domain.ErrNoActiveSession
	}

	apply(current, &doc)
	doc.Updated = s.now()

	if err := s.repo.Save(ctx, doc); err != nil {
		return domain.Session{}, fmt.Errorf("save context: %w", err)
	}

	return *current, nil
}

// Decision and blocker ids count across the whole document, not per session:
// the archive deduplicates entities by id globally, so per-session numbering
// would collide.
func countDecisions(doc domain.Document) int {
	total := 0
	for _, session := range doc.Sessions {
		total += len(session.Decisions)
	}
	return total
}

func countBlockers(doc domain.Document) int {
	total := 0
	for _, session := range doc.Sessions {
		total += len(session.Blockers)
	}
	return total
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
