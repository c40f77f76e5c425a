package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bin", "b.bin", "sub/c.bin", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte{}, 0644))
	}

	t.Run("recursive", func(t *testing.T) {
		paths, err := expandGlobs([]string{filepath.Join(dir, "**", "*.bin")})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{
			filepath.Join(dir, "a.bin"),
			filepath.Join(dir, "b.bin"),
			filepath.Join(dir, "sub", "c.bin"),
		}, paths)
	})

	t.Run("no match kept", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.bin")
		paths, err := expandGlobs([]string{missing})
		require.NoError(t, err)
		require.Equal(t, []string{missing}, paths)
	})
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, "", outputPath("", "records/bob1.bin", ".json"))
	require.Equal(t, filepath.Join("out", "bob1.json"), outputPath("out", "records/bob1.bin", ".json"))
}

func TestOpenStore(t *testing.T) {
	t.Cleanup(func() { dataDir, s3Endpoint, s3Bucket = "", "", "" })

	_, err := openStore()
	require.ErrorContains(t, err, "must specify")

	dataDir = t.TempDir()
	s3Endpoint = "localhost:9000"
	_, err = openStore()
	require.ErrorContains(t, err, "cannot specify both")

	s3Endpoint = ""
	store, err := openStore()
	require.NoError(t, err)
	require.Contains(t, store.String(), dataDir)
}

func TestEnv(t *testing.T) {
	t.Setenv("RADMIN_CATALOG", "x.db")
	require.Equal(t, "x.db", env("CATALOG", "radmin.db"))
	require.Equal(t, "fallback", env("UNSET_FOR_TEST", "fallback"))
	t.Setenv("RADMIN_DEBUG", "true")
	require.True(t, envBool("DEBUG"))
}
