package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deepclone/internal/value"
)

func TestTracker_LookupRegister(t *testing.T) {
	tr := NewTracker()
	src, dst := value.NewRecord(), value.NewRecord()

	_, ok := tr.Lookup(src)
	assert.False(t, ok)

	id := tr.Register(src, dst)
	assert.Equal(t, uint64(1), id)

	got, ok := tr.Lookup(src)
	require.True(t, ok)
	assert.Same(t, dst, got)
}

func TestTracker_IdentityNotContent(t *testing.T) {
	tr := NewTracker()
	a, b := value.NewRecord(), value.NewRecord()
	tr.Register(a, value.NewRecord())

	_, ok := tr.Lookup(b)
	assert.False(t, ok, "structurally equal sources must not collide")

	assert.Equal(t, uint64(2), tr.Register(b, value.NewRecord()))
	assert.Equal(t, 2, tr.Len())
}

func TestTracker_RegisterOnce(t *testing.T) {
	tr := NewTracker()
	src, first, second := value.NewSequence(), value.NewSequence(), value.NewSequence()

	assert.Equal(t, uint64(1), tr.Register(src, first))
	assert.Equal(t, uint64(1), tr.Register(src, second))

	got, _ := tr.Lookup(src)
	assert.Same(t, first, got)

	id, ok := tr.ID(src)
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)
}
