package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Trial: "walk 01",
		Outputs: []grfm.Output{
			{T: 0},
			{
				T:     0.01,
				Right: grfm.Reaction{Force: r3.Vec{X: 12.5, Y: 640.25, Z: -3}, Torque: r3.Vec{Y: 1.5}, Point: r3.Vec{X: 0.1, Z: 0.09}},
				Left:  grfm.Reaction{Force: r3.Vec{Y: 95.75}, Point: r3.Vec{X: -0.3, Z: -0.09}},
			},
		},
		Metrics: map[string]float64{"body_weight_ratio": 0.98},
		ReadyAt: 0.01,
	}
}

func testMeta() RunMetadata {
	return RunMetadata{Method: "newton-euler", Model: "lowerlimb", Mass: 75, Height: 1.75, DirectionWindow: 10}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	res := testResult()
	id, err := st.Save(testMeta(), res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "walk_01_"), id)

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, meta.ID)
	assert.Equal(t, "walk 01", meta.Trial)
	assert.Equal(t, "newton-euler", meta.Method)
	assert.Equal(t, 2, meta.Frames)
	assert.Equal(t, 0.01, meta.ReadyAt)
	assert.Equal(t, 0.98, meta.Metrics["body_weight_ratio"])
	assert.False(t, meta.Timestamp.IsZero())

	outputs, err := st.LoadOutputs(id)
	require.NoError(t, err)
	assert.Equal(t, res.Outputs, outputs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))

	id, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "runs", id, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, "runs", id, "outputs.csv"))

	entries, err := os.ReadDir(filepath.Join(dir, "runs"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp_run_"), "temp directory left behind: %s", e.Name())
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Latest()
	assert.ErrorIs(t, err, ErrRunNotFound)

	first, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)
	second, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "stray"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	latest, err := st.Latest()
	require.NoError(t, err)
	assert.Contains(t, []string{first, second}, latest)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadOutputs("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, st.Delete("nope"), ErrRunNotFound)
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	id, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)

	require.NoError(t, st.Delete(id))
	_, err = st.Load(id)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	id, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, id))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, id, data.ID)
	assert.Equal(t, "lowerlimb", data.Model)
	require.Len(t, data.Outputs, 2)
	assert.Equal(t, [3]float64{12.5, 640.25, -3}, data.Outputs[1].Right.Force)
	assert.Equal(t, [3]float64{-0.3, 0, -0.09}, data.Outputs[1].Left.Point)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, st.ExportJSONFile(path, id))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(raw))
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	id, err := st.Save(testMeta(), testResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(&buf, id))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "time,r_fx"))
}

func TestSaveEmptyRun(t *testing.T) {
	res := &pipeline.Result{Trial: "", Metrics: map[string]float64{}, ReadyAt: -1}
	st := New(t.TempDir())
	id, err := st.Save(testMeta(), res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "run_"))

	outputs, err := st.LoadOutputs(id)
	require.NoError(t, err)
	assert.Empty(t, outputs)
}
