package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersAccumulateAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	store := NewStore(path)

	store.IncrementHome()
	store.IncrementHome()
	store.IncrementPost(7)
	store.IncrementPost(7)
	store.IncrementPost(9)

	snap := store.Get()
	assert.Equal(t, 2, snap.HomeViews)
	assert.Equal(t, 3, snap.TotalPostViews)
	assert.Equal(t, 2, snap.Posts["7"])
	assert.Equal(t, 1, snap.Posts["9"])

	// a fresh store over the same file sees the persisted counters
	reopened := NewStore(path)
	assert.Equal(t, 2, reopened.Get().HomeViews)
}

func TestMissingFileReadsAsZero(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	snap := store.Get()
	assert.Equal(t, 0, snap.HomeViews)
	assert.Equal(t, 0, snap.TotalPostViews)
	assert.Empty(t, snap.Posts)
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path)
	assert.Equal(t, 0, store.Get().HomeViews)

	store.IncrementHome()
	assert.Equal(t, 1, store.Get().HomeViews)
}
