package layered

// entityTable is a per-kind deduplicating store keyed by the entity's natural
// key (id, path, or name). Inserts are presence-checked: the first payload
// for a key wins and later writes for the same key are discarded, returning
// the original index.
type entityTable[R any] struct {
	rows  []R
	byKey map[string]int
}

func newEntityTable[R any]() entityTable[R] {
	return entityTable[R]{byKey: map[string]int{}}
}

// intern returns the index for key, appending build()'s row only on first
// sight. build is not called for repeat keys, so a discarded payload never
// touches the string table.
func (t *entityTable[R]) intern(key string, build func() R) (idx int, added bool) {
	if idx, ok := t.byKey[key]; ok {
		return idx, false
	}

	idx = len(t.rows)
	t.rows = append(t.rows, build())
	t.byKey[key] = idx
	return idx, true
}

func (t *entityTable[R]) list() []R {
	if t.rows == nil {
		return []R{}
	}
	return t.rows
}
