// Package storage persists decoded file parts under a process-scoped
// temporary directory, sanitising and de-duplicating filenames the way
// spec.md §4.3 requires.
package storage

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/webform-cli/readwebform/internal/formdata"
)

// ErrStorageFailure wraps any I/O error encountered while persisting a
// file (spec.md §7 — surfaced to the client as 500, never resets the
// deadline).
var ErrStorageFailure = errors.New("storage failure")

var disallowed = regexp.MustCompile(`[^A-Za-z0-9 _.-]`)

const maxFilenameLen = 255

// FormStorage persists UploadedFile content under a single run's upload
// directory.
type FormStorage struct {
	Dir string
}

// New returns a FormStorage rooted at dir. dir must already exist.
func New(dir string) *FormStorage {
	return &FormStorage{Dir: dir}
}

// Store sanitises uf.Filename, resolves any collision against existing
// files in s.Dir, writes the content, and returns the resulting
// StoredFile. Each call is independent; concurrent Store calls racing on
// different names don't need external coordination — only a genuine
// filename collision needs the numeric-suffix resolution below, and
// creating the file with O_CREATE|O_EXCL avoids a second writer silently
// clobbering the first (spec.md §5).
func (s *FormStorage) Store(uf formdata.UploadedFile) (formdata.StoredFile, error) {
	name := SanitizeFilename(uf.Filename)
	target, err := s.reserve(name)
	if err != nil {
		return formdata.StoredFile{}, errors.Wrapf(ErrStorageFailure, "reserving path for %q: %v", uf.Filename, err)
	}

	if err := os.WriteFile(target, uf.Content, 0o600); err != nil {
		return formdata.StoredFile{}, errors.Wrapf(ErrStorageFailure, "writing %q: %v", target, err)
	}

	contentType := uf.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return formdata.StoredFile{
		OriginalFilename: uf.Filename,
		StoredPath:       target,
		SizeBytes:        int64(len(uf.Content)),
		ContentType:      contentType,
	}, nil
}

// reserve finds a non-existing path for name under s.Dir, appending
// "_1", "_2", ... before the extension on collision, using O_CREATE|O_EXCL
// to claim the slot atomically against concurrent Store calls.
func (s *FormStorage) reserve(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(s.Dir, name)
	for i := 1; ; i++ {
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			f.Close()
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		candidate = filepath.Join(s.Dir, base+"_"+strconv.Itoa(i)+ext)
	}
}

// SanitizeFilename applies the sanitisation rules of spec.md §4.3:
// backslash-to-slash normalisation, final path segment only, character
// whitelist, NFC normalisation (so visually-identical Unicode filenames
// collide predictably rather than by accident of decomposition form),
// length cap, and a placeholder for empty/"."/"..".
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	filename = norm.NFC.String(filename)
	filename = disallowed.ReplaceAllString(filename, "_")

	if runes := []rune(filename); len(runes) > maxFilenameLen {
		filename = string(runes[:maxFilenameLen])
	}

	if filename == "" || filename == "." || filename == ".." {
		filename = "upload"
	}
	return filename
}
