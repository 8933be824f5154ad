package upload

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/limerick-go/apperror"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Limerick-1.txt", "Limerick-1.txt"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system.ini", "system.ini"},
		{"my file.txt", "my_file.txt"},
		{"weird$na#me!.txt", "weirdname.txt"},
		{".hidden", "hidden"},
		{"..", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	_, err := NewStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveAndOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("Limerick-1.txt", []byte("there once was a man\n"))
	require.NoError(t, err)
	assert.Equal(t, "Limerick-1.txt", name)

	f, err := store.Open("Limerick-1.txt")
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "there once was a man\n", string(content))
}

func TestSaveStripsPathComponents(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", name)

	_, err = os.Stat(filepath.Join(store.Dir(), "escape.txt"))
	assert.NoError(t, err, "file must land inside the store directory")
}

func TestSaveRejectsEmptySanitizedName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("..", []byte("x"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestSaveOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("Limerick-1.txt", []byte("first version of the file"))
	require.NoError(t, err)
	_, err = store.Save("Limerick-1.txt", []byte("second"))
	require.NoError(t, err)

	f, err := store.Open("Limerick-1.txt")
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content), "last writer wins")
}

func TestOpenMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope.txt")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCountWords(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"simple", "a b  c\n", 3},
		{"empty", "", 0},
		{"whitespace only", " \n\t ", 0},
		{"newlines and tabs", "one\ntwo\tthree four\n", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save("Limerick-1.txt", []byte(tt.content))
			require.NoError(t, err)

			count, err := store.CountWords("Limerick-1.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestCountWordsMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.CountWords("nope.txt")
	require.Error(t, err)
}
