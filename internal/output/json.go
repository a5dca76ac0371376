// Package output formats collected form submissions for consumption by
// the process that launched readwebform: a JSON envelope on stdout, or
// shell-sourceable environment variable exports.
package output

import (
	"encoding/json"

	"github.com/webform-cli/readwebform/internal/formdata"
)

// Envelope is the stable JSON schema readwebform emits for every run,
// success or failure.
type Envelope struct {
	Success bool                   `json:"success"`
	Fields  map[string]interface{} `json:"fields"`
	Files   map[string]interface{} `json:"files"`
	Error   *string                `json:"error"`
}

// FileInfo is the JSON shape of a single stored upload.
type FileInfo struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Type     string `json:"content_type"`
}

// BuildEnvelope assembles the JSON envelope from a decoded form's fields
// and its persisted files, the way core.py's run_readwebform does before
// calling format_json_output: single-valued fields serialize as a bare
// string, repeated fields as an array, and a successful run always has a
// nil error. storedFiles is keyed by field name, populated by the
// handler after storage.FormStorage has written each upload to disk.
func BuildEnvelope(form *formdata.FormData, storedFiles map[string]formdata.FileValue, success bool, errMsg string) Envelope {
	fields := map[string]interface{}{}
	files := map[string]interface{}{}

	if form != nil {
		for _, name := range form.FieldOrder() {
			if v, ok := form.Field(name); ok {
				if v.IsSingle() {
					fields[name] = v.String()
				} else {
					fields[name] = v.Strings()
				}
			}
		}
	}
	for name, fv := range storedFiles {
		if fv.IsSingle() {
			files[name] = toFileInfo(fv.First())
		} else {
			stored := fv.Files()
			infos := make([]FileInfo, len(stored))
			for i, f := range stored {
				infos[i] = toFileInfo(f)
			}
			files[name] = infos
		}
	}

	env := Envelope{Success: success, Fields: fields, Files: files}
	if errMsg != "" {
		env.Error = &errMsg
	}
	return env
}

func toFileInfo(f formdata.StoredFile) FileInfo {
	return FileInfo{
		Filename: f.OriginalFilename,
		Path:     f.StoredPath,
		Size:     f.SizeBytes,
		Type:     f.ContentType,
	}
}

// FormatJSON renders env with the same two-space indentation and
// non-ASCII-preserving behavior as format_json_output's
// json.dumps(indent=2, ensure_ascii=False).
func FormatJSON(env Envelope) (string, error) {
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
