package jsonutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	type S struct {
		A int
		B string
	}
	out, err := Convert[map[string]interface{}](S{A: 42, B: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"A": float64(42), "B": "x"}, out)

	_, err = Convert[int]("123")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	out, err := Decode[[]string](strings.NewReader(`["a", "b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)

	_, err = Decode[[]string](strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"code": "1120"}`), 0644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"code":`), 0644))

	out, err := ReadFile[map[string]string](good)
	require.NoError(t, err)
	assert.Equal(t, "1120", out["code"])

	_, err = ReadFile[map[string]string](bad)
	assert.ErrorContains(t, err, "bad.json")

	_, err = ReadFile[map[string]string](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
