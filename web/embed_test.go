package web

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_Embedded(t *testing.T) {
	files, err := Files("")
	require.NoError(t, err)

	for _, name := range []string{"index.html", "app.js", "styles.css"} {
		_, err := fs.Stat(files, name)
		assert.NoError(t, err, name)
	}

	index, err := fs.ReadFile(files, "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), `src="/app.js"`)
}

func TestFiles_RadioStations(t *testing.T) {
	files, err := Files("")
	require.NoError(t, err)

	app, err := fs.ReadFile(files, "app.js")
	require.NoError(t, err)

	for _, url := range []string{
		"https://strm112.181.fm/stream",
		"https://strm12.181.fm/stream",
		"https://listen.radioking.com/radio/16253/stream/54425",
		"https://stream.radioparadise.com/aac-320",
	} {
		assert.True(t, strings.Contains(string(app), url), "missing station %s", url)
	}
}

func TestFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("local"), 0o644))

	files, err := Files(dir)
	require.NoError(t, err)

	data, err := fs.ReadFile(files, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))
}

func TestFiles_DirectoryErrors(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = Files(t.TempDir())
	assert.Error(t, err, "directory without index.html")

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Files(file)
	assert.Error(t, err)
}
