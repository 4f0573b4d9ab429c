package likehint_test

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/pkg/likehint"
)

func openMem(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore(t *testing.T) {
	db := openMem(t)
	alice := likehint.New(db, 1)
	bob := likehint.New(db, 2)

	_, known := alice.Liked(10)
	assert.False(t, known)

	require.NoError(t, alice.Set(10, true))
	require.NoError(t, alice.Set(11, true))
	require.NoError(t, alice.Set(11, false))

	liked, known := alice.Liked(10)
	assert.True(t, known)
	assert.True(t, liked)

	liked, known = alice.Liked(11)
	assert.True(t, known)
	assert.False(t, liked)

	_, known = bob.Liked(10)
	assert.False(t, known)

	ids, err := alice.LikedItems()
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids)
}

func TestOpen_InMemory(t *testing.T) {
	db, err := likehint.Open("")
	require.NoError(t, err)
	defer db.Close()

	s := likehint.New(db, 1)
	require.NoError(t, s.Set(3, true))
	liked, _ := s.Liked(3)
	assert.True(t, liked)
}

func TestOpen_Persists(t *testing.T) {
	dir := t.TempDir()

	db, err := likehint.Open(dir)
	require.NoError(t, err)
	require.NoError(t, likehint.New(db, 1).Set(7, true))
	require.NoError(t, db.Close())

	db, err = likehint.Open(dir)
	require.NoError(t, err)
	defer db.Close()
	liked, known := likehint.New(db, 1).Liked(7)
	assert.True(t, known)
	assert.True(t, liked)
}
