package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/seed"
	"github.com/stevemurr/simple-user-table/store"
)

func TestDefaultSeedsFourRecords(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, seed.Apply(s, seed.Default()))

	rs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{ID: 1, Name: "Jess", Age: "20"},
		{ID: 2, Name: "John", Age: "32"},
		{ID: 3, Name: "Verli", Age: "29"},
		{ID: 4, Name: "Samy", Age: "5"},
	}, rs)
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	rs, err := seed.Load("")
	require.NoError(t, err)
	assert.Equal(t, seed.Default(), rs)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 40\n  name: Ada\n  age: 36\n- name: Alan\n  age: \"41\"\n"), 0o644))

	rs, err := seed.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{Name: "Ada", Age: "36"},
		{Name: "Alan", Age: "41"},
	}, rs)
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Ada", "age": 36}]`), 0o644))

	rs, err := seed.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{Name: "Ada", Age: "36"}}, rs)
}

func TestParseErrors(t *testing.T) {
	_, err := seed.Parse([]byte("- nickname: Ada\n"))
	assert.Error(t, err)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	rs, err := seed.Parse([]byte("   \n"))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	_, err := seed.Parse([]byte("- name: Ada\n  age: 36\n- name: R2D2\n  age: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed entry 2")
	assert.Contains(t, err.Error(), record.MsgName)

	_, err = seed.Parse([]byte("- name: Ada\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), record.MsgAge)
}

func TestDefaultSeedIsValid(t *testing.T) {
	for _, r := range seed.Default() {
		assert.True(t, record.Validate(r).OK(), r.Name)
	}
}
