package layered

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTableAddDeduplicates(t *testing.T) {
	table := NewStringTable()

	first := table.Add("auth_service")
	second := table.Add("auth_service")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, table.Len())
}

func TestStringTableGrowsByOnePerUniqueString(t *testing.T) {
	table := NewStringTable()

	assert.Equal(t, 0, table.Add("a"))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, table.Add("b"))
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 0, table.Add("a"))
	assert.Equal(t, 2, table.Len())
}

func TestStringTableGetIsPermissive(t *testing.T) {
	table := NewStringTable()
	table.Add("only_entry")

	assert.Equal(t, "only_entry", table.Get(0))
	assert.Equal(t, "", table.Get(1))
	assert.Equal(t, "", table.Get(-1))
	assert.Equal(t, "", table.Get(9999))
}

func TestStringTableAddAllPreservesOrder(t *testing.T) {
	table := NewStringTable()
	table.Add("seed")

	indices := table.AddAll([]string{"x", "seed", "y", "x"})

	assert.Equal(t, []int{1, 0, 2, 1}, indices)
	assert.Equal(t, []string{"seed", "x", "y"}, table.Strings())
}

func TestStringTableStringsNeverNil(t *testing.T) {
	assert.NotNil(t, NewStringTable().Strings())
	assert.Empty(t, NewStringTable().Strings())
}
