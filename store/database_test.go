package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skogkatt/wasteisland/common"
	"github.com/skogkatt/wasteisland/common/testutil"
)

func openTestDatabase(t *testing.T) (*Database, string) {
	dir := testutil.TempDir(t)
	db, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func TestDatabase_SmokeHelloWorld(t *testing.T) {
	db, _ := openTestDatabase(t)

	h1, err := db.Put([]byte("hello world"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(h1, "b94d27b9"))
	require.Len(t, h1, 64)

	h2, err := db.Put([]byte("hello world again"))
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)

	got1, err := db.Get(h1)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got1))

	got2, err := db.Get(h2)
	require.NoError(t, err)
	require.Equal(t, "hello world again", string(got2))
}

func TestDatabase_RepeatedIdenticalPut(t *testing.T) {
	db, _ := openTestDatabase(t)

	var lastHash string
	for i := 0; i < 3; i++ {
		h, err := db.Put([]byte("repeated payload"))
		require.NoError(t, err)
		if i > 0 {
			require.Equal(t, lastHash, h)
		}
		lastHash = h
	}

	got, err := db.Get(lastHash)
	require.NoError(t, err)
	require.Equal(t, "repeated payload", string(got))
}

func TestDatabase_MissingKey(t *testing.T) {
	db, _ := openTestDatabase(t)
	_, err := db.Get(strings.Repeat("00", 32))
	require.ErrorIs(t, err, common.ErrHashNotFound)
}

func TestDatabase_InvalidHashString(t *testing.T) {
	db, _ := openTestDatabase(t)
	_, err := db.Get("not-a-hash")
	require.ErrorIs(t, err, common.ErrInvalidHash)
}

func TestDatabase_Reopen(t *testing.T) {
	dir := testutil.TempDir(t)

	db, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	h, err := db.Put([]byte("persisted across reopen"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(h)
	require.NoError(t, err)
	require.Equal(t, "persisted across reopen", string(got))
}

func TestDatabase_LargePayload(t *testing.T) {
	db, _ := openTestDatabase(t)

	payload := bytes.Repeat([]byte{0xAB, 0xCD, 0x01}, 1<<20) // ~3MB, well beyond one page
	h, err := db.Put(payload)
	require.NoError(t, err)

	got, err := db.Get(h)
	require.NoError(t, err)
	require.True(t, bytes.Equal(payload, got))
}

func TestDatabase_List(t *testing.T) {
	db, _ := openTestDatabase(t)

	want := map[string]bool{}
	for _, p := range []string{"a", "b", "c", "d"} {
		h, err := db.Put([]byte(p))
		require.NoError(t, err)
		want[h] = true
	}

	got, err := db.List()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for _, h := range got {
		require.True(t, want[h])
	}
}

func TestDatabase_Drop(t *testing.T) {
	db, dir := openTestDatabase(t)
	_, err := db.Put([]byte("to be dropped"))
	require.NoError(t, err)

	require.NoError(t, db.Drop())

	_, err = Open(DefaultConfig(dir))
	require.NoError(t, err) // Drop removes the directory; Open just recreates it
}
