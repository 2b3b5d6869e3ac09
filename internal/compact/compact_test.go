package compact

import (
	"encoding/json"
	"testing"

	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() domain.Document {
	return domain.Document{
		Version: domain.DocumentVersion,
		Project: "demo",
		Created: "2025-01-01T10:00:00Z",
		Updated: "2025-01-02T10:00:00Z",
		Sessions: []domain.Session{{
			ID:    "s1",
			Start: "2025-01-01T10:00:00Z",
			End:   "2025-01-01T12:00:00Z",
			Goal:  "wire_codecs",
			State: domain.SessionCompleted,
			Decisions: []domain.Decision{{
				ID:           "d1",
				What:         "json_wire_format",
				Why:          "llm_readable",
				Alternatives: []string{"msgpack"},
				Impact:       []string{"internal/compact"},
			}},
			Files: map[string]domain.FileChange{
				"internal/compact/compact.go": {
					Action: domain.ActionCreated,
					Role:   "key_renaming_codec",
					Deps:   []string{"encoding/json"},
					Status: domain.StatusPartial,
				},
			},
			Patterns:  map[string]string{"schema_split": "wire_types_separate_from_domain"},
			Blockers:  []domain.Blocker{{ID: "b1", Desc: "naming_bikeshed", Status: domain.BlockerResolved}},
			NextSteps: []string{"add_expand_tests"},
			KV:        map[string]string{"go": "1.25"},
		}},
	}
}

func TestMinifyExpandRoundTrip(t *testing.T) {
	doc := sampleDocument()

	got := Expand(Minify(doc))

	assert.Equal(t, doc, got)
}

func TestMinifyUsesShortKeysAndCodes(t *testing.T) {
	data, err := json.Marshal(Minify(sampleDocument()))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"v", "p", "c", "u", "s"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, string(data), `"project"`)
	assert.NotContains(t, string(data), `"sessions"`)

	var sessions []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["s"], &sessions))
	require.Len(t, sessions, 1)
	// Session state and file action/status travel as numeric codes.
	assert.JSONEq(t, `1`, string(sessions[0]["state"]))
	var files map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(sessions[0]["f"], &files))
	assert.JSONEq(t, `0`, string(files["internal/compact/compact.go"]["a"]))
	assert.JSONEq(t, `1`, string(files["internal/compact/compact.go"]["s"]))
}

func TestMinifyKeepsBlockerStatusAsString(t *testing.T) {
	data, err := json.Marshal(Minify(sampleDocument()))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"s":"resolved"`)
}

func TestMinifyOpenEndedSessionMarshalsNullEnd(t *testing.T) {
	doc := domain.Document{Sessions: []domain.Session{{ID: "s1", State: domain.SessionInProgress}}}

	data, err := json.Marshal(Minify(doc))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"e":null`)
}

func TestExpandDefaultsUnknownCodes(t *testing.T) {
	archive := Archive{
		Sessions: []Session{{
			ID:       "s1",
			State:    42,
			Files:    map[string]File{"x.go": {Action: 9, Status: -3}},
			Blockers: []Blocker{{ID: "b1", Status: "someday"}},
		}},
	}

	doc := Expand(archive)

	require.Len(t, doc.Sessions, 1)
	assert.Equal(t, domain.SessionInProgress, doc.Sessions[0].State)
	assert.Equal(t, domain.ActionModified, doc.Sessions[0].Files["x.go"].Action)
	assert.Equal(t, domain.StatusComplete, doc.Sessions[0].Files["x.go"].Status)
	assert.Equal(t, domain.BlockerOpen, doc.Sessions[0].Blockers[0].Status)
}

func TestExpandFillsMissingVersion(t *testing.T) {
	doc := Expand(Archive{})

	assert.Equal(t, domain.DocumentVersion, doc.Version)
	assert.NotNil(t, doc.Sessions)
}
