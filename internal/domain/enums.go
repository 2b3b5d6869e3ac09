package domain

// Four independent code spaces share some labels ("blocked" appears as both a
// session state and a file status) but never mix: each enum owns its own
// numeric mapping, and unknown input resolves to that enum's default instead
// of failing.

type SessionState string

const (
	SessionInProgress SessionState = "in_progress"
	SessionCompleted  SessionState = "completed"
	SessionBlocked    SessionState = "blocked"
	SessionCancelled  SessionState = "cancelled"
)

func SessionStateFrom(raw string) SessionState {
	switch SessionState(raw) {
	case SessionCompleted, SessionBlocked, SessionCancelled:
		return SessionState(raw)
	default:
		return SessionInProgress
	}
}

func (s SessionState) Code() int {
	switch s {
	case SessionCompleted:
		return 1
	case SessionBlocked:
		return 2
	case SessionCancelled:
		return 3
	default:
		return 0
	}
}

func SessionStateFromCode(code int) SessionState {
	switch code {
	case 1:
		return SessionCompleted
	case 2:
		return SessionBlocked
	case 3:
		return SessionCancelled
	default:
		return SessionInProgress
	}
}

type FileAction string

const (
	ActionCreated  FileAction = "created"
	ActionModified FileAction = "modified"
	ActionDeleted  FileAction = "deleted"
	ActionRenamed  FileAction = "renamed"
)

func FileActionFrom(raw string) FileAction {
	switch FileAction(raw) {
	case ActionCreated, ActionDeleted, ActionRenamed:
		return FileAction(raw)
	default:
		return ActionModified
	}
}

func (a FileAction) Code() int {
	switch a {
	case ActionCreated:
		return 0
	case ActionDeleted:
		return 2
	case ActionRenamed:
		return 3
	default:
		return 1
	}
}

func FileActionFromCode(code int) FileAction {
	switch code {
	case 0:
		return ActionCreated
	case 2:
		return ActionDeleted
	case 3:
		return ActionRenamed
	default:
		return ActionModified
	}
}

type FileStatus string

const (
	StatusComplete FileStatus = "complete"
	StatusPartial  FileStatus = "partial"
	StatusBlocked  FileStatus = "blocked"
	StatusPending  FileStatus = "pending"
)

func FileStatusFrom(raw string) FileStatus {
	switch FileStatus(raw) {
	case StatusPartial, StatusBlocked, StatusPending:
		return FileStatus(raw)
	default:
		return StatusComplete
	}
}

func (s FileStatus) Code() int {
	switch s {
	case StatusPartial:
		return 1
	case StatusBlocked:
		return 2
	case StatusPending:
		return 3
	default:
		return 0
	}
}

func FileStatusFromCode(code int) FileStatus {
	switch code {
	case 1:
		return StatusPartial
	case 2:
		return StatusBlocked
	case 3:
		return StatusPending
	default:
		return StatusComplete
	}
}

type BlockerStatus string

const (
	BlockerOpen     BlockerStatus = "open"
	BlockerResolved BlockerStatus = "resolved"
	BlockerWontfix  BlockerStatus = "wontfix"
)

func BlockerStatusFrom(raw string) BlockerStatus {
	switch BlockerStatus(raw) {
	case BlockerResolved, BlockerWontfix:
		return BlockerStatus(raw)
	default:
		return BlockerOpen
	}
}

func (s BlockerStatus) Code() int {
	switch s {
	case BlockerResolved:
		return 1
	case BlockerWontfix:
		return 2
	default:
		return 0
	}
}

func BlockerStatusFromCode(code int) BlockerStatus {
	switch code {
	case 1:
		return BlockerResolved
	case 2:
		return BlockerWontfix
	default:
		return BlockerOpen
	}
}
