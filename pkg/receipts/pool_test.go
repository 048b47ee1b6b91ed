package receipts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_AppendKeepsOrderAndDuplicates(t *testing.T) {
	var p Pool

	p.Append("a")
	p.Append("b")
	p.Append("a")

	assert.Equal(t, []string{"a", "b", "a"}, p.IDs())
	assert.Equal(t, 3, p.Len())
}

func TestPool_IDsIsACopy(t *testing.T) {
	var p Pool
	p.Append("a")

	ids := p.IDs()
	ids[0] = "changed"

	assert.Equal(t, []string{"a"}, p.IDs())
}

func TestPool_RandomEmpty(t *testing.T) {
	var p Pool

	called := false
	id, ok := p.Random(func(int) int { called = true; return 0 })

	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, called)
}

func TestPool_RandomUsesIntn(t *testing.T) {
	var p Pool
	p.Append("a")
	p.Append("b")
	p.Append("c")

	var seenN int
	id, ok := p.Random(func(n int) int { seenN = n; return 2 })

	assert.True(t, ok)
	assert.Equal(t, "c", id)
	assert.Equal(t, 3, seenN)
}
