package sink

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/govcon-intel/internal/model"
)

func TestWrite_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opportunities.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"stale":true}]`), 0o644))

	s := New(path)
	require.NoError(t, s.Write(model.OpportunityDocument{{Title: "New", Link: "#"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0]["title"])
	assert.NotContains(t, got[0], "stale")
}

func TestWrite_EmptyDocuments(t *testing.T) {
	dir := t.TempDir()

	opps := New(filepath.Join(dir, "opps.json"))
	require.NoError(t, opps.Write(model.EmptyOpportunities()))
	data, err := os.ReadFile(opps.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	spend := New(filepath.Join(dir, "spend.json"))
	require.NoError(t, spend.Write(model.EmptySpend("2025-01-01T00:00:00Z")))
	data, err = os.ReadFile(spend.Path())
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), `"topCompetitors":[]`)
}

func TestWrite_EncodeFailureKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	err := New(path).Write(map[string]float64{"bad": math.NaN()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink: encode document")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestWrite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.json")
	require.NoError(t, New(path).Write([]int{1, 2}))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "out.json"))
	require.NoError(t, s.Write([]int{1}))
	require.NoError(t, s.Write([]int{2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())
}

func TestWrite_NoHTMLEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, New(path).Write(map[string]string{"title": "R&D <Phase 2>"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "R&D <Phase 2>")
}

func TestWrite_Indent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, New(path, WithIndent("  ")).Write(map[string]int{"a": 1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestWrite_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// A regular file where a directory is expected.
	err := New(filepath.Join(blocker, "out.json")).Write([]int{})
	require.Error(t, err)
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence_top.json")
	s := New(path)
	require.NoError(t, s.WriteEmpty(model.EmptySpend("2025-03-15T00:00:00Z")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"meta":{"generatedAt":"2025-03-15T00:00:00Z","queryWindowDays":0,"recordCount":0},"topCompetitors":[],"topAgencies":[]}`, string(data))
}
