// Package compact implements the minified single-letter-key rendition of the
// session context: the same nested shape as the v1 document with aggressively
// abbreviated keys and numeric enum codes. Unlike the layered archive it
// performs no deduplication; it is a pure key renaming.
package compact

import "github.com/bnema/session-ctx-cli/internal/domain"

type Archive struct {
	Version  string    `json:"v"`
	Project  string    `json:"p"`
	Created  string    `json:"c"`
	Updated  string    `json:"u"`
	Sessions []Session `json:"s"`
}

type Session struct {
	ID        string            `json:"i"`
	Start     string            `json:"st"`
	End       *string           `json:"e"`
	Goal      string            `json:"g"`
	State     int               `json:"state"`
	Decisions []Decision        `json:"d"`
	Files     map[string]File   `json:"f"`
	Patterns  map[string]string `json:"p"`
	Blockers  []Blocker         `json:"b"`
	Next      []string          `json:"n"`
	KV        map[string]string `json:"k"`
}

type Decision struct {
	ID     string   `json:"i"`
	What   string   `json:"w"`
	Why    string   `json:"y"`
	Alt    []string `json:"a"`
	Impact []string `json:"imp"`
}

type File struct {
	Action int      `json:"a"`
	Role   string   `json:"r"`
	Deps   []string `json:"d"`
	Status int      `json:"s"`
}

// Blocker status stays a raw string in this format; only the layered archive
// gives it a code space.
type Blocker struct {
	ID     string `json:"i"`
	Desc   string `json:"d"`
	Status string `json:"s"`
}

func Minify(doc domain.Document) Archive {
	archive := Archive{
		Version:  doc.Version,
		Project:  doc.Project,
		Created:  doc.Created,
		Updated:  doc.Updated,
		Sessions: make([]Session, 0, len(doc.Sessions)),
	}
	if archive.Version == "" {
		archive.Version = domain.DocumentVersion
	}

	for _, s := range doc.Sessions {
		archive.Sessions = append(archive.Sessions, minifySession(s))
	}

	return archive
}

func minifySession(s domain.Session) Session {
	out := Session{
		ID:        s.ID,
		Start:     s.Start,
		End:       optional(s.End),
		Goal:      s.Goal,
		State:     s.State.Code(),
		Decisions: make([]Decision, 0, len(s.Decisions)),
		Files:     make(map[string]File, len(s.Files)),
		Patterns:  s.Patterns,
		Blockers:  make([]Blocker, 0, len(s.Blockers)),
		Next:      s.NextSteps,
		KV:        s.KV,
	}
	if out.Patterns == nil {
		out.Patterns = map[string]string{}
	}
	if out.Next == nil {
		out.Next = []string{}
	}
	if out.KV == nil {
		out.KV = map[string]string{}
	}

	for _, d := range s.Decisions {
		out.Decisions = append(out.Decisions, Decision{
			ID:     d.ID,
			What:   d.What,
			Why:    d.Why,
			Alt:    stringsOrEmpty(d.Alternatives),
			Impact: stringsOrEmpty(d.Impact),
		})
	}

	for path, fc := range s.Files {
		out.Files[path] = File{
			Action: fc.Action.Code(),
			Role:   fc.Role,
			Deps:   stringsOrEmpty(fc.Deps),
			Status: fc.Status.Code(),
		}
	}

	for _, b := range s.Blockers {
		out.Blockers = append(out.Blockers, Blocker{
			ID:     b.ID,
			Desc:   b.Desc,
			Status: string(domain.BlockerStatusFrom(string(b.Status))),
		})
	}

	return out
}

func Expand(archive Archive) domain.Document {
	doc := domain.Document{
		Version:  archive.Version,
		Project:  archive.Project,
		Created:  archive.Created,
		Updated:  archive.Updated,
		Sessions: make([]domain.Session, 0, len(archive.Sessions)),
	}
	if doc.Version == "" {
		doc.Version = domain.DocumentVersion
	}

	for _, s := range archive.Sessions {
		doc.Sessions = append(doc.Sessions, expandSession(s))
	}

	return doc
}

func expandSession(s Session) domain.Session {
	out := domain.Session{
		ID:        s.ID,
		Start:     s.Start,
		End:       deref(s.End),
		Goal:      s.Goal,
		State:     domain.SessionStateFromCode(s.State),
		Decisions: make([]domain.Decision, 0, len(s.Decisions)),
		Files:     make(map[string]domain.FileChange, len(s.Files)),
		Patterns:  s.Patterns,
		Blockers:  make([]domain.Blocker, 0, len(s.Blockers)),
		NextSteps: s.Next,
		KV:        s.KV,
	}
	if out.Patterns == nil {
		out.Patterns = map[string]string{}
	}
	if out.NextSteps == nil {
		out.NextSteps = []string{}
	}
	if out.KV == nil {
		out.KV = map[string]string{}
	}

	for _, d := range s.Decisions {
		out.Decisions = append(out.Decisions, domain.Decision{
			ID:           d.ID,
			What:         d.What,
			Why:          d.Why,
			Alternatives: stringsOrEmpty(d.Alt),
			Impact:       stringsOrEmpty(d.Impact),
		})
	}

	for path, f := range s.Files {
		out.Files[path] = domain.FileChange{
			Action: domain.FileActionFromCode(f.Action),
			Role:   f.Role,
			Deps:   stringsOrEmpty(f.Deps),
			Status: domain.FileStatusFromCode(f.Status),
		}
	}

	for _, b := range s.Blockers {
		out.Blockers = append(out.Blockers, domain.Blocker{
			ID:     b.ID,
			Desc:   b.Desc,
			Status: domain.BlockerStatusFrom(b.Status),
		})
	}

	return out
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
