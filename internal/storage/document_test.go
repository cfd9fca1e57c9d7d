package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDocument_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(dir, "records.json", func() map[string]testRecord {
		return map[string]testRecord{}
	})

	want := map[string]testRecord{
		"100_200": {Name: "первый", Count: 3, Tags: []string{"a", "b"}},
		"101_200": {Name: "второй", Count: 1, Tags: nil},
	}
	require.NoError(t, doc.Save(want))

	got := doc.Load()
	assert.Equal(t, want, got)
}

func TestDocument_LoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(dir, "nope.json", func() []string {
		return []string{}
	})

	got := doc.Load()
	assert.Empty(t, got)
	assert.NotNil(t, got)

	// файл при этом не должен появиться
	_, err := os.Stat(filepath.Join(dir, "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDocument_LoadCorruptFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{не json"), 0o644))

	doc := NewDocument(dir, "bad.json", func() testRecord {
		return testRecord{Name: "default"}
	})

	got := doc.Load()
	assert.Equal(t, "default", got.Name)
}

func TestDocument_UpdateMutatesAndPersists(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(dir, "counter.json", func() map[string]int {
		return map[string]int{}
	})

	for i := 0; i < 3; i++ {
		err := doc.Update(func(m *map[string]int) error {
			(*m)["x"]++
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, doc.Load()["x"])
}

func TestDocument_UpdateErrorAbortsSave(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(dir, "state.json", func() testRecord {
		return testRecord{}
	})
	require.NoError(t, doc.Save(testRecord{Name: "было"}))

	boom := errors.New("boom")
	err := doc.Update(func(r *testRecord) error {
		r.Name = "стало"
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, "было", doc.Load().Name)
}

func TestDocument_CreatesDataDirOnSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	doc := NewDocument(dir, "x.json", func() int { return 0 })

	require.NoError(t, doc.Save(42))
	assert.Equal(t, 42, doc.Load())
}
