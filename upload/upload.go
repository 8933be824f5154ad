// Package upload manages the fixed directory of uploaded files: filename
// sanitization, persistence, retrieval for download, and the word count
// computed over a stored file's text content.
//
// The namespace is flat: files are keyed by sanitized filename only, with no
// per-user prefix. Two users uploading the same filename overwrite each
// other; that matches the source system and is documented rather than fixed.
package upload

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/user/limerick-go/apperror"
)

// unsafeChars matches everything not allowed in a stored filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename strips path components and unsafe characters from an
// uploaded file's original name so it is usable as a flat storage key.
// Spaces become underscores, anything outside [A-Za-z0-9_.-] is dropped,
// and leading dots are removed so the result can neither be hidden nor
// traverse upward.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	return name
}

// Store is a file store rooted at one fixed directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if it does not exist and returns a
// Store rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.NewIOError("failed to create upload directory", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the given content under the sanitized filename, overwriting any
// existing file with that name, and returns the sanitized name. Concurrent
// writes to the same name are unsynchronized; last writer wins.
func (s *Store) Save(filename string, content []byte) (string, error) {
	sanitized := SanitizeFilename(filename)
	if sanitized == "" {
		return "", apperror.NewValidationError("empty filename after sanitization", nil)
	}
	dest := filepath.Join(s.dir, sanitized)
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", apperror.NewIOError("failed to store uploaded file", err)
	}
	return sanitized, nil
}

// Open opens a stored file for reading, e.g. to stream a download. The
// requested name is sanitized first so the lookup cannot escape the store
// directory. The caller closes the returned file.
func (s *Store) Open(filename string) (*os.File, error) {
	sanitized := SanitizeFilename(filename)
	f, err := os.Open(filepath.Join(s.dir, sanitized))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NewNotFoundError("file not found", err)
		}
		return nil, apperror.NewIOError("failed to open stored file", err)
	}
	return f, nil
}

// CountWords reads a stored file fully into memory and returns the number of
// whitespace-delimited tokens in its text content.
func (s *Store) CountWords(filename string) (int, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, SanitizeFilename(filename)))
	if err != nil {
		return 0, apperror.NewIOError("failed to read stored file", err)
	}
	return len(strings.Fields(string(data))), nil
}
