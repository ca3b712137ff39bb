package store_test

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/store"
)

func seed(t *testing.T, s store.Store) {
	t.Helper()
	for _, r := range []record.Record{
		{Name: "Jess", Age: "20"},
		{Name: "John", Age: "32"},
		{Name: "Verli", Age: "29"},
		{Name: "Samy", Age: "5"},
	} {
		_, err := s.Insert(r)
		require.NoError(t, err)
	}
}

func ids(t *testing.T, s store.Store) []int {
	t.Helper()
	rs, err := s.List()
	require.NoError(t, err)
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

// runStoreTests runs a common test suite against any Store implementation.
func runStoreTests(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("List empty", func(t *testing.T) {
		s := newStore(t)
		rs, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, rs)
	})

	t.Run("Insert assigns size plus one", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		got, err := s.Insert(record.Record{ID: 99, Name: "Amy", Age: "41"})
		require.NoError(t, err)
		assert.Equal(t, record.Record{ID: 5, Name: "Amy", Age: "41"}, got)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(t, s))
	})

	t.Run("Insert preserves age text", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Insert(record.Record{Name: "Amy", Age: "041"})
		require.NoError(t, err)
		rs, err := s.List()
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, record.Age("041"), rs[0].Age)
	})

	t.Run("UpdateByID keeps position and id", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		ok, err := s.UpdateByID(2, record.Record{ID: 7, Name: "Johnny", Age: "33"})
		require.NoError(t, err)
		assert.True(t, ok)
		rs, err := s.List()
		require.NoError(t, err)
		require.Len(t, rs, 4)
		assert.Equal(t, record.Record{ID: 2, Name: "Johnny", Age: "33"}, rs[1])
		assert.Equal(t, "Jess", rs[0].Name)
		assert.Equal(t, "Verli", rs[2].Name)
	})

	t.Run("UpdateByID missing is a no-op", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		before, err := s.List()
		require.NoError(t, err)
		ok, err := s.UpdateByID(42, record.Record{Name: "Ghost", Age: "1"})
		require.NoError(t, err)
		assert.False(t, ok)
		after, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		ok, err := s.DeleteByID(2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 3, 4}, ids(t, s))

		ok, err = s.DeleteByID(2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []int{1, 3, 4}, ids(t, s))
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		_, err := s.DeleteByID(2)
		require.NoError(t, err)
		got, err := s.Insert(record.Record{Name: "Amy", Age: "41"})
		require.NoError(t, err)
		assert.Equal(t, 5, got.ID)

		_, err = s.DeleteByID(5)
		require.NoError(t, err)
		got, err = s.Insert(record.Record{Name: "Bo", Age: "7"})
		require.NoError(t, err)
		assert.Equal(t, 6, got.ID)
		assert.Equal(t, []int{1, 3, 4, 6}, ids(t, s))
	})

	t.Run("List returns a copy", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		rs, err := s.List()
		require.NoError(t, err)
		rs[0].Name = "Mutated"
		again, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, "Jess", again[0].Name)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.Store {
		s := store.NewMemoryStore()
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSqliteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.Store {
		s, err := store.NewSqliteStore()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSqliteStoresAreIsolated(t *testing.T) {
	a, err := store.NewSqliteStore()
	require.NoError(t, err)
	defer a.Close()
	b, err := store.NewSqliteStore()
	require.NoError(t, err)
	defer b.Close()

	_, err = a.Insert(record.Record{Name: "Amy", Age: "41"})
	require.NoError(t, err)
	rs, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestFactory(t *testing.T) {
	for _, backend := range append([]string{""}, store.Backends...) {
		s, err := store.New(backend)
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}

	_, err := store.New("postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend")
}
