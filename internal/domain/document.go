package domain

// Document is the v1 session context: a project log made of ordered work
// sessions. Timestamps are kept as ISO-8601 strings because that is what the
// on-disk v1 format carries; an empty string means the value is unset.
type Document struct {
	Version  string
	Project  string
	Created  string
	Updated  string
	Sessions []Session
}

type Session struct {
	ID        string
	Start     string
	End       string
	Goal      string
	State     SessionState
	Decisions []Decision
	Files     map[string]FileChange
	Patterns  map[string]string
	Blockers  []Blocker
	NextSteps []string
	KV        map[string]string
}

type Decision struct {
	ID           string
	What         string
	Why          string
	Alternatives []string
	Impact       []string
}

// FileChange describes what happened to one file during a session. The file
// path is the map key on Session, not a field here.
type FileChange struct {
	Action FileAction
	Role   string
	Deps   []string
	Status FileStatus
}

type Blocker struct {
	ID     string
	Desc   string
	Status BlockerStatus
}

const DocumentVersion = "1.0"

func NewDocument(project, now string) Document {
	return Document{
		Version: DocumentVersion,
		Project: project,
		Created: now,
		Updated: now,
	}
}

// CurrentSession returns the most recent in-progress session, or nil.
func (d *Document) CurrentSession() *Session {
	for i := len(d.Sessions) - 1; i >= 0; i-- {
		if d.Sessions[i].State == SessionInProgress {
			return &d.Sessions[i]
		}
	}
	return nil
}
