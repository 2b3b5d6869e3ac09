package layered

// StringTable interns strings into an append-only table with stable indices.
// Adding the same string twice always returns the same index; the table never
// shrinks or reorders once an index is handed out.
type StringTable struct {
	table []string
	index map[string]int
}

func NewStringTable() *StringTable {
	return &StringTable{index: map[string]int{}}
}

func stringTableFrom(table []string) *StringTable {
	return &StringTable{table: table}
}

func (t *StringTable) Add(s string) int {
	if idx, ok := t.index[s]; ok {
		return idx
	}

	idx := len(t.table)
	t.table = append(t.table, s)
	t.index[s] = idx
	return idx
}

func (t *StringTable) AddAll(values []string) []int {
	indices := make([]int, 0, len(values))
	for _, v := range values {
		indices = append(indices, t.Add(v))
	}
	return indices
}

// Get resolves an index to its string. An out-of-range index returns the
// empty string: decode has to tolerate structurally inconsistent input.
func (t *StringTable) Get(idx int) string {
	if idx < 0 || idx >= len(t.table) {
		return ""
	}
	return t.table[idx]
}

func (t *StringTable) Len() int {
	return len(t.table)
}

// Strings exposes the backing table for serialization, never nil.
func (t *StringTable) Strings() []string {
	if t.table == nil {
		return []string{}
	}
	return t.table
}
