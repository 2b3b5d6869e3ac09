package layered

import (
	"encoding/json"
	"fmt"
)

const ArchiveVersion = "2.0"

// Archive is the layered on-disk structure: one shared string table, one
// deduplicated table per entity kind, and sessions packed as positional rows
// referencing them by index.
type Archive struct {
	Version   string        `json:"v"`
	Meta      Meta          `json:"meta"`
	Strings   []string      `json:"strings"`
	Sessions  []SessionRow  `json:"sessions"`
	Decisions []DecisionRow `json:"decisions"`
	Files     []FileRow     `json:"files"`
	Patterns  []PatternRow  `json:"patterns"`
	Blockers  []BlockerRow  `json:"blockers"`
}

type Meta struct {
	Project string `json:"p"`
	Created *int64 `json:"c"`
	Updated *int64 `json:"u"`
}

// SessionRow is one session packed into ten fixed positions, extended to an
// eleventh only when the KV map is non-empty. The struct is the explicit
// form; the length tagging lives entirely in the JSON round trip.
type SessionRow struct {
	ID        int
	Start     *int64
	End       *int64
	Goal      int
	State     int
	Decisions []int
	Files     []int
	Patterns  []int
	Blockers  []int
	Next      []int
	KV        map[string]string
}

const sessionRowPositions = 10

func (r SessionRow) MarshalJSON() ([]byte, error) {
	row := []any{
		r.ID,
		r.Start,
		r.End,
		r.Goal,
		r.State,
		intList(r.Decisions),
		intList(r.Files),
		intList(r.Patterns),
		intList(r.Blockers),
		intList(r.Next),
	}
	if len(r.KV) > 0 {
		row = append(row, r.KV)
	}

	return json.Marshal(row)
}

func (r *SessionRow) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < sessionRowPositions {
		return fmt.Errorf("%w: %d of %d positions", ErrMalformedRow, len(raw), sessionRowPositions)
	}

	positions := []any{
		&r.ID, &r.Start, &r.End, &r.Goal, &r.State,
		&r.Decisions, &r.Files, &r.Patterns, &r.Blockers, &r.Next,
	}
	for i, dst := range positions {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("%w: position %d: %v", ErrMalformedRow, i, err)
		}
	}

	r.KV = nil
	if len(raw) > sessionRowPositions {
		if err := json.Unmarshal(raw[sessionRowPositions], &r.KV); err != nil {
			return fmt.Errorf("%w: position %d: %v", ErrMalformedRow, sessionRowPositions, err)
		}
	}

	return nil
}

// DecisionRow is [id, what, why, [alternatives], [impact]], all string-table
// indices.
type DecisionRow struct {
	ID     int
	What   int
	Why    int
	Alt    []int
	Impact []int
}

func (r DecisionRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.ID, r.What, r.Why, intList(r.Alt), intList(r.Impact)})
}

func (r *DecisionRow) UnmarshalJSON(data []byte) error {
	return unmarshalTuple(data, "decision", &r.ID, &r.What, &r.Why, &r.Alt, &r.Impact)
}

// FileRow is [path, action code, role, [deps], status code].
type FileRow struct {
	Path   int
	Action int
	Role   int
	Deps   []int
	Status int
}

func (r FileRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Path, r.Action, r.Role, intList(r.Deps), r.Status})
}

func (r *FileRow) UnmarshalJSON(data []byte) error {
	return unmarshalTuple(data, "file", &r.Path, &r.Action, &r.Role, &r.Deps, &r.Status)
}

// PatternRow is [name, description].
type PatternRow struct {
	Name int
	Desc int
}

func (r PatternRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Name, r.Desc})
}

func (r *PatternRow) UnmarshalJSON(data []byte) error {
	return unmarshalTuple(data, "pattern", &r.Name, &r.Desc)
}

// BlockerRow is [id, description, status code].
type BlockerRow struct {
	ID     int
	Desc   int
	Status int
}

func (r BlockerRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.ID, r.Desc, r.Status})
}

func (r *BlockerRow) UnmarshalJSON(data []byte) error {
	return unmarshalTuple(data, "blocker", &r.ID, &r.Desc, &r.Status)
}

// unmarshalTuple reads a fixed-arity positional array. Too few positions is a
// structural failure; extra positions are ignored.
func unmarshalTuple(data []byte, kind string, dst ...any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < len(dst) {
		return fmt.Errorf("%w: %s tuple has %d of %d positions", ErrMalformedDocument, kind, len(raw), len(dst))
	}

	for i, d := range dst {
		if err := json.Unmarshal(raw[i], d); err != nil {
			return fmt.Errorf("%w: %s tuple position %d: %v", ErrMalformedDocument, kind, i, err)
		}
	}

	return nil
}

// intList keeps empty index lists serialized as [] rather than null.
func intList(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
