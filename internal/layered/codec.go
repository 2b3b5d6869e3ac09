package layered

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bnema/session-ctx-cli/internal/domain"
)

// Warning records one field-level degradation: a value that was silently
// resolved to a default instead of failing the call. Callers can log or
// audit them; the codec itself never raises for these.
type Warning struct {
	Path   string
	Detail string
}

// Encode packs a document into a fresh encoder. Encoding always succeeds on
// a well-formed document; degraded fields are reported as warnings.
func Encode(doc domain.Document) (Archive, []Warning) {
	enc := NewEncoder()
	archive := enc.Encode(doc)
	return archive, enc.Warnings()
}

// Decode unpacks an archive. It either returns a fully reconstructed
// document or fails with ErrMalformedDocument / ErrUnsupportedVersion.
func Decode(a Archive) (domain.Document, []Warning, error) {
	dec := NewDecoder()
	doc, err := dec.Decode(a)
	return doc, dec.Warnings(), err
}

// Encoder holds the builder state for a single Encode call: one string table
// and one table per entity kind, shared across every session in the document
// so entities referenced by multiple sessions collapse to one entry. Not
// reusable across calls.
type Encoder struct {
	strings   *StringTable
	decisions entityTable[DecisionRow]
	files     entityTable[FileRow]
	patterns  entityTable[PatternRow]
	blockers  entityTable[BlockerRow]
	warnings  []Warning
}

func NewEncoder() *Encoder {
	return &Encoder{
		strings:   NewStringTable(),
		decisions: newEntityTable[DecisionRow](),
		files:     newEntityTable[FileRow](),
		patterns:  newEntityTable[PatternRow](),
		blockers:  newEntityTable[BlockerRow](),
	}
}

func (e *Encoder) Encode(doc domain.Document) Archive {
	meta := Meta{
		Project: doc.Project,
		Created: e.epoch("meta.c", doc.Created),
		Updated: e.epoch("meta.u", doc.Updated),
	}

	sessions := make([]SessionRow, 0, len(doc.Sessions))
	for i := range doc.Sessions {
		sessions = append(sessions, e.encodeSession(i, doc.Sessions[i]))
	}

	return Archive{
		Version:   ArchiveVersion,
		Meta:      meta,
		Strings:   e.strings.Strings(),
		Sessions:  sessions,
		Decisions: e.decisions.list(),
		Files:     e.files.list(),
		Patterns:  e.patterns.list(),
		Blockers:  e.blockers.list(),
	}
}

func (e *Encoder) Warnings() []Warning {
	return e.warnings
}

func (e *Encoder) encodeSession(i int, s domain.Session) SessionRow {
	path := func(field string) string { return fmt.Sprintf("sessions[%d].%s", i, field) }

	// Entities are interned before the session's own id and goal so table
	// and string indices grow in first-encounter order.
	decisionRefs := make([]int, 0, len(s.Decisions))
	for _, d := range s.Decisions {
		decisionRefs = append(decisionRefs, e.encodeDecision(path("decisions"), d))
	}

	fileRefs := make([]int, 0, len(s.Files))
	for _, filePath := range slices.Sorted(maps.Keys(s.Files)) {
		fileRefs = append(fileRefs, e.encodeFile(fmt.Sprintf("%s[%s]", path("files"), filePath), filePath, s.Files[filePath]))
	}

	patternRefs := make([]int, 0, len(s.Patterns))
	for _, name := range slices.Sorted(maps.Keys(s.Patterns)) {
		patternRefs = append(patternRefs, e.encodePattern(path("patterns"), name, s.Patterns[name]))
	}

	blockerRefs := make([]int, 0, len(s.Blockers))
	for _, b := range s.Blockers {
		blockerRefs = append(blockerRefs, e.encodeBlocker(path("blockers"), b))
	}

	e.checkEnum(path("state"), string(s.State), string(domain.SessionStateFrom(string(s.State))))

	row := SessionRow{
		ID:        e.strings.Add(s.ID),
		Start:     e.epoch(path("start"), s.Start),
		End:       e.epoch(path("end"), s.End),
		Goal:      e.strings.Add(s.Goal),
		State:     s.State.Code(),
		Decisions: decisionRefs,
		Files:     fileRefs,
		Patterns:  patternRefs,
		Blockers:  blockerRefs,
		Next:      e.strings.AddAll(s.NextSteps),
	}
	if len(s.KV) > 0 {
		row.KV = maps.Clone(s.KV)
	}

	return row
}

func (e *Encoder) encodeDecision(path string, d domain.Decision) int {
	idx, added := e.decisions.intern(d.ID, func() DecisionRow {
		return DecisionRow{
			ID:     e.strings.Add(d.ID),
			What:   e.strings.Add(d.What),
			Why:    e.strings.Add(d.Why),
			Alt:    e.strings.AddAll(d.Alternatives),
			Impact: e.strings.AddAll(d.Impact),
		}
	})
	if !added && e.decisionConflicts(e.decisions.rows[idx], d) {
		e.warn(path, fmt.Sprintf("decision %q re-encoded with a different payload; first write kept", d.ID))
	}

	return idx
}

func (e *Encoder) encodeFile(path, filePath string, fc domain.FileChange) int {
	e.checkEnum(path, string(fc.Action), string(domain.FileActionFrom(string(fc.Action))))
	e.checkEnum(path, string(fc.Status), string(domain.FileStatusFrom(string(fc.Status))))

	idx, added := e.files.intern(filePath, func() FileRow {
		return FileRow{
			Path:   e.strings.Add(filePath),
			Action: fc.Action.Code(),
			Role:   e.strings.Add(fc.Role),
			Deps:   e.strings.AddAll(fc.Deps),
			Status: fc.Status.Code(),
		}
	})
	if !added && e.fileConflicts(e.files.rows[idx], fc) {
		e.warn(path, fmt.Sprintf("file %q re-encoded with a different payload; first write kept", filePath))
	}

	return idx
}

func (e *Encoder) encodePattern(path, name, desc string) int {
	idx, added := e.patterns.intern(name, func() PatternRow {
		return PatternRow{
			Name: e.strings.Add(name),
			Desc: e.strings.Add(desc),
		}
	})
	if !added && e.strings.Get(e.patterns.rows[idx].Desc) != desc {
		e.warn(path, fmt.Sprintf("pattern %q re-encoded with a different description; first write kept", name))
	}

	return idx
}

func (e *Encoder) encodeBlocker(path string, b domain.Blocker) int {
	e.checkEnum(path, string(b.Status), string(domain.BlockerStatusFrom(string(b.Status))))

	idx, added := e.blockers.intern(b.ID, func() BlockerRow {
		return BlockerRow{
			ID:     e.strings.Add(b.ID),
			Desc:   e.strings.Add(b.Desc),
			Status: b.Status.Code(),
		}
	})
	if !added && e.blockerConflicts(e.blockers.rows[idx], b) {
		e.warn(path, fmt.Sprintf("blocker %q re-encoded with a different payload; first write kept", b.ID))
	}

	return idx
}

func (e *Encoder) decisionConflicts(row DecisionRow, d domain.Decision) bool {
	return e.strings.Get(row.What) != d.What ||
		e.strings.Get(row.Why) != d.Why ||
		!e.sameStrings(row.Alt, d.Alternatives) ||
		!e.sameStrings(row.Impact, d.Impact)
}

func (e *Encoder) fileConflicts(row FileRow, fc domain.FileChange) bool {
	return row.Action != fc.Action.Code() ||
		e.strings.Get(row.Role) != fc.Role ||
		!e.sameStrings(row.Deps, fc.Deps) ||
		row.Status != fc.Status.Code()
}

func (e *Encoder) blockerConflicts(row BlockerRow, b domain.Blocker) bool {
	return e.strings.Get(row.Desc) != b.Desc || row.Status != b.Status.Code()
}

func (e *Encoder) sameStrings(indices []int, values []string) bool {
	if len(indices) != len(values) {
		return false
	}
	for i, idx := range indices {
		if e.strings.Get(idx) != values[i] {
			return false
		}
	}
	return true
}

func (e *Encoder) epoch(path, ts string) *int64 {
	epoch, ok := epochFromISO(ts)
	if !ok {
		e.warn(path, fmt.Sprintf("unparsable timestamp %q dropped", ts))
	}
	return epoch
}

func (e *Encoder) checkEnum(path, raw, resolved string) {
	if raw != "" && raw != resolved {
		e.warn(path, fmt.Sprintf("unknown value %q encoded as %q", raw, resolved))
	}
}

func (e *Encoder) warn(path, detail string) {
	e.warnings = append(e.warnings, Warning{Path: path, Detail: detail})
}

// Decoder holds the read-side state for a single Decode call.
type Decoder struct {
	strings  *StringTable
	warnings []Warning
}

func NewDecoder() *Decoder {
	return &Decoder{strings: stringTableFrom(nil)}
}

func (d *Decoder) Decode(a Archive) (domain.Document, error) {
	if err := validateArchive(a); err != nil {
		return domain.Document{}, err
	}

	d.strings = stringTableFrom(a.Strings)

	doc := domain.Document{
		Version:  domain.DocumentVersion,
		Project:  a.Meta.Project,
		Created:  isoFromEpoch(a.Meta.Created),
		Updated:  isoFromEpoch(a.Meta.Updated),
		Sessions: make([]domain.Session, 0, len(a.Sessions)),
	}

	for i, row := range a.Sessions {
		doc.Sessions = append(doc.Sessions, d.decodeSession(i, row, a))
	}

	return doc, nil
}

func (d *Decoder) Warnings() []Warning {
	return d.warnings
}

func validateArchive(a Archive) error {
	if a.Version != "" && a.Version != ArchiveVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, a.Version)
	}

	tables := []struct {
		name   string
		absent bool
	}{
		{"strings", a.Strings == nil},
		{"sessions", a.Sessions == nil},
		{"decisions", a.Decisions == nil},
		{"files", a.Files == nil},
		{"patterns", a.Patterns == nil},
		{"blockers", a.Blockers == nil},
	}
	for _, table := range tables {
		if table.absent {
			return fmt.Errorf("%w: missing %s table", ErrMalformedDocument, table.name)
		}
	}

	return nil
}

func (d *Decoder) decodeSession(i int, row SessionRow, a Archive) domain.Session {
	path := func(field string) string { return fmt.Sprintf("sessions[%d].%s", i, field) }

	d.checkCode(path("state"), row.State, domain.SessionStateFromCode(row.State).Code())

	s := domain.Session{
		ID:        d.lookup(path("id"), row.ID),
		Start:     isoFromEpoch(row.Start),
		End:       isoFromEpoch(row.End),
		Goal:      d.lookup(path("goal"), row.Goal),
		State:     domain.SessionStateFromCode(row.State),
		Decisions: make([]domain.Decision, 0, len(row.Decisions)),
		Files:     make(map[string]domain.FileChange, len(row.Files)),
		Patterns:  make(map[string]string, len(row.Patterns)),
		Blockers:  make([]domain.Blocker, 0, len(row.Blockers)),
		NextSteps: d.lookupAll(path("next"), row.Next),
		KV:        map[string]string{},
	}

	for _, idx := range row.Decisions {
		if idx < 0 || idx >= len(a.Decisions) {
			d.warn(path("decisions"), fmt.Sprintf("decision index %d out of range; entity omitted", idx))
			continue
		}
		s.Decisions = append(s.Decisions, d.decodeDecision(path("decisions"), a.Decisions[idx]))
	}

	for _, idx := range row.Files {
		if idx < 0 || idx >= len(a.Files) {
			d.warn(path("files"), fmt.Sprintf("file index %d out of range; entity omitted", idx))
			continue
		}
		fileRow := a.Files[idx]
		d.checkCode(path("files"), fileRow.Action, domain.FileActionFromCode(fileRow.Action).Code())
		d.checkCode(path("files"), fileRow.Status, domain.FileStatusFromCode(fileRow.Status).Code())
		s.Files[d.lookup(path("files"), fileRow.Path)] = domain.FileChange{
			Action: domain.FileActionFromCode(fileRow.Action),
			Role:   d.lookup(path("files"), fileRow.Role),
			Deps:   d.lookupAll(path("files"), fileRow.Deps),
			Status: domain.FileStatusFromCode(fileRow.Status),
		}
	}

	for _, idx := range row.Patterns {
		if idx < 0 || idx >= len(a.Patterns) {
			d.warn(path("patterns"), fmt.Sprintf("pattern index %d out of range; entity omitted", idx))
			continue
		}
		patternRow := a.Patterns[idx]
		s.Patterns[d.lookup(path("patterns"), patternRow.Name)] = d.lookup(path("patterns"), patternRow.Desc)
	}

	for _, idx := range row.Blockers {
		if idx < 0 || idx >= len(a.Blockers) {
			d.warn(path("blockers"), fmt.Sprintf("blocker index %d out of range; entity omitted", idx))
			continue
		}
		blockerRow := a.Blockers[idx]
		d.checkCode(path("blockers"), blockerRow.Status, domain.BlockerStatusFromCode(blockerRow.Status).Code())
		s.Blockers = append(s.Blockers, domain.Blocker{
			ID:     d.lookup(path("blockers"), blockerRow.ID),
			Desc:   d.lookup(path("blockers"), blockerRow.Desc),
			Status: domain.BlockerStatusFromCode(blockerRow.Status),
		})
	}

	if len(row.KV) > 0 {
		s.KV = maps.Clone(row.KV)
	}

	return s
}

func (d *Decoder) decodeDecision(path string, row DecisionRow) domain.Decision {
	return domain.Decision{
		ID:           d.lookup(path, row.ID),
		What:         d.lookup(path, row.What),
		Why:          d.lookup(path, row.Why),
		Alternatives: d.lookupAll(path, row.Alt),
		Impact:       d.lookupAll(path, row.Impact),
	}
}

func (d *Decoder) lookup(path string, idx int) string {
	if idx < 0 || idx >= d.strings.Len() {
		d.warn(path, fmt.Sprintf("string index %d out of range; empty string substituted", idx))
	}
	return d.strings.Get(idx)
}

func (d *Decoder) lookupAll(path string, indices []int) []string {
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		values = append(values, d.lookup(path, idx))
	}
	return values
}

func (d *Decoder) checkCode(path string, code, resolved int) {
	if code != resolved {
		d.warn(path, fmt.Sprintf("unknown code %d decoded as default", code))
	}
}

func (d *Decoder) warn(path, detail string) {
	d.warnings = append(d.warnings, Warning{Path: path, Detail: detail})
}
