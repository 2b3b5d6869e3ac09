package jsonfile

import (
	"github.com/bnema/session-ctx-cli/internal/domain"
)

// documentSchema is the on-disk v1 context file. It matches the readable
// long-key layout, with null for open-ended session timestamps.
type documentSchema struct {
	Version  string          `json:"v"`
	Project  string          `json:"project"`
	Created  string          `json:"created"`
	Updated  string          `json:"updated"`
	Sessions []sessionSchema `json:"sessions"`
}

type sessionSchema struct {
	ID        string                `json:"id"`
	Start     string                `json:"start"`
	End       *string               `json:"end"`
	Goal      string                `json:"goal"`
	State     string                `json:"state"`
	Decisions []decisionSchema      `json:"decisions"`
	Files     map[string]fileSchema `json:"files"`
	Patterns  map[string]string     `json:"patterns"`
	Blockers  []blockerSchema       `json:"blockers"`
	NextSteps []string              `json:"next"`
	KV        map[string]string     `json:"kv,omitempty"`
}

type decisionSchema struct {
	ID           string   `json:"id"`
	What         string   `json:"what"`
	Why          string   `json:"why"`
	Alternatives []string `json:"alt"`
	Impact       []string `json:"impact"`
}

type fileSchema struct {
	Action string   `json:"action"`
	Role   string   `json:"role"`
	Deps   []string `json:"deps"`
	Status string   `json:"status"`
}

type blockerSchema struct {
	ID     string `json:"id"`
	Desc   string `json:"desc"`
	Status string `json:"status"`
}

func (s *documentSchema) applyDefaults() {
	if s.Version == "" {
		s.Version = domain.DocumentVersion
	}
	if s.Sessions == nil {
		s.Sessions = []sessionSchema{}
	}
}

func toSchema(doc domain.Document) documentSchema {
	sessions := make([]sessionSchema, 0, len(doc.Sessions))
	for _, session := range doc.Sessions {
		sessions = append(sessions, toSessionSchema(session))
	}

	file := documentSchema{
		Version:  doc.Version,
		Project:  doc.Project,
		Created:  doc.Created,
		Updated:  doc.Updated,
		Sessions: sessions,
	}
	file.applyDefaults()

	return file
}

func toSessionSchema(session domain.Session) sessionSchema {
	var end *string
	if session.End != "" {
		value := session.End
		end = &value
	}

	decisions := make([]decisionSchema, 0, len(session.Decisions))
	for _, decision := range session.Decisions {
		decisions = append(decisions, decisionSchema{
			ID:           decision.ID,
			What:         decision.What,
			Why:          decision.Why,
			Alternatives: stringsOrEmpty(decision.Alternatives),
			Impact:       stringsOrEmpty(decision.Impact),
		})
	}

	files := make(map[string]fileSchema, len(session.Files))
	for path, change := range session.Files {
		files[path] = fileSchema{
			Action: string(change.Action),
			Role:   change.Role,
			Deps:   stringsOrEmpty(change.Deps),
			Status: string(change.Status),
		}
	}

	blockers := make([]blockerSchema, 0, len(session.Blockers))
	for _, blocker := range session.Blockers {
		blockers = append(blockers, blockerSchema{
			ID:     blocker.ID,
			Desc:   blocker.Desc,
			Status: string(blocker.Status),
		})
	}

	patterns := session.Patterns
	if patterns == nil {
		patterns = map[string]string{}
	}

	return sessionSchema{
		ID:        session.ID,
		Start:     session.Start,
		End:       end,
		Goal:      session.Goal,
		State:     string(session.State),
		Decisions: decisions,
		Files:     files,
		Patterns:  patterns,
		Blockers:  blockers,
		NextSteps: stringsOrEmpty(session.NextSteps),
		KV:        session.KV,
	}
}

func fromSchema(file documentSchema) domain.Document {
	file.applyDefaults()

	sessions := make([]domain.Session, 0, len(file.Sessions))
	for _, session := range file.Sessions {
		sessions = append(sessions, fromSessionSchema(session))
	}

	return domain.Document{
		Version:  file.Version,
		Project:  file.Project,
		Created:  file.Created,
		Updated:  file.Updated,
		Sessions: sessions,
	}
}

func fromSessionSchema(session sessionSchema) domain.Session {
	end := ""
	if session.End != nil {
		end = *session.End
	}

	decisions := make([]domain.Decision, 0, len(session.Decisions))
	for _, decision := range session.Decisions {
		decisions = append(decisions, domain.Decision{
			ID:           decision.ID,
			What:         decision.What,
			Why:          decision.Why,
			Alternatives: stringsOrEmpty(decision.Alternatives),
			Impact:       stringsOrEmpty(decision.Impact),
		})
	}

	files := make(map[string]domain.FileChange, len(session.Files))
	for path, change := range session.Files {
		files[path] = domain.FileChange{
			Action: domain.FileActionFrom(change.Action),
			Role:   change.Role,
			Deps:   stringsOrEmpty(change.Deps),
			Status: domain.FileStatusFrom(change.Status),
		}
	}

	blockers := make([]domain.Blocker, 0, len(session.Blockers))
	for _, blocker := range session.Blockers {
		blockers = append(blockers, domain.Blocker{
			ID:     blocker.ID,
			Desc:   blocker.Desc,
			Status: domain.BlockerStatusFrom(blocker.Status),
		})
	}

	patterns := session.Patterns
	if patterns == nil {
		patterns = map[string]string{}
	}
	kv := session.KV
	if kv == nil {
		kv = map[string]string{}
	}

	return domain.Session{
		ID:        session.ID,
		Start:     session.Start,
		End:       end,
		Goal:      session.Goal,
		State:     domain.SessionStateFrom(session.State),
		Decisions: decisions,
		Files:     files,
		Patterns:  patterns,
		Blockers:  blockers,
		NextSteps: stringsOrEmpty(session.NextSteps),
		KV:        kv,
	}
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
