// Package formdata holds the FormData/StoredFile data model and the
// decoders that turn an HTTP request body into a FormData value.
package formdata

// Value is a single field value: either a plain string or an ordered,
// non-empty sequence of strings produced by repeated occurrences of the
// same field name.
type Value struct {
	single   string
	multi    []string
	isSingle bool
}

// NewSingle builds a single-valued Value.
func NewSingle(s string) Value { return Value{single: s, isSingle: true} }

// NewMulti builds a sequence-valued Value. Panics if vals is empty, since
// the data model requires a non-empty sequence (spec.md §3).
func NewMulti(vals []string) Value {
	if len(vals) == 0 {
		panic("formdata: NewMulti requires at least one value")
	}
	return Value{multi: vals}
}

// IsSingle reports whether this Value holds exactly one string.
func (v Value) IsSingle() bool { return v.isSingle }

// String returns the single value, or the first element of a sequence.
func (v Value) String() string {
	if v.isSingle {
		return v.single
	}
	if len(v.multi) == 0 {
		return ""
	}
	return v.multi[0]
}

// Strings returns the full ordered sequence of values (length 1 for a
// single-valued Value).
func (v Value) Strings() []string {
	if v.isSingle {
		return []string{v.single}
	}
	return v.multi
}

// UploadedFile is an in-memory file part awaiting storage: the received
// bytes plus metadata. It is distinct from StoredFile, which records where
// the bytes ended up on disk.
type UploadedFile struct {
	Filename    string
	Content     []byte
	ContentType string
}

// StoredFile is the immutable record surfaced to the caller once an
// UploadedFile has been persisted to disk (spec.md §3).
type StoredFile struct {
	OriginalFilename string
	StoredPath       string
	SizeBytes        int64
	ContentType      string
}

// FileValue is either a single StoredFile or an ordered sequence of them,
// for repeated file inputs of the same name.
type FileValue struct {
	single   StoredFile
	multi    []StoredFile
	isSingle bool
}

// NewSingleFile builds a single-valued FileValue.
func NewSingleFile(f StoredFile) FileValue { return FileValue{single: f, isSingle: true} }

// NewMultiFile builds a sequence-valued FileValue.
func NewMultiFile(files []StoredFile) FileValue { return FileValue{multi: files} }

// IsSingle reports whether this FileValue holds exactly one file.
func (f FileValue) IsSingle() bool { return f.isSingle }

// First returns the single file, or the first element of a sequence.
func (f FileValue) First() StoredFile {
	if f.isSingle {
		return f.single
	}
	return f.multi[0]
}

// Files returns the full ordered sequence (length 1 for a single-valued
// FileValue).
func (f FileValue) Files() []StoredFile {
	if f.isSingle {
		return []StoredFile{f.single}
	}
	return f.multi
}

// FormData is the ordered mapping from field name to Value, plus a
// separate mapping from field name to uploaded files not yet persisted
// (populated by the decoders; the handler moves these into
// per-run StoredFile metadata through storage.FormStorage).
type FormData struct {
	order  []string
	fields map[string]Value
	files  map[string][]UploadedFile
}

// New returns an empty FormData ready for incremental population.
func New() *FormData {
	return &FormData{
		fields: make(map[string]Value),
		files:  make(map[string][]UploadedFile),
	}
}

// AddField appends a value for name, promoting to a sequence on repeat
// occurrences while preserving submission order (spec.md §3, §8).
func (f *FormData) AddField(name, value string) {
	existing, ok := f.fields[name]
	if !ok {
		f.order = append(f.order, name)
		f.fields[name] = NewSingle(value)
		return
	}
	f.fields[name] = NewMulti(append(existing.Strings(), value))
}

// AddFile appends an uploaded file for name, preserving submission order.
func (f *FormData) AddFile(name string, uf UploadedFile) {
	if _, ok := f.files[name]; !ok {
		f.order = append(f.order, "\x00file:"+name)
	}
	f.files[name] = append(f.files[name], uf)
}

// RemoveField deletes a field (used by the handler to strip the CSRF
// token before surfacing FormData to the caller).
func (f *FormData) RemoveField(name string) {
	delete(f.fields, name)
}

// Field returns the value for name and whether it was present.
func (f *FormData) Field(name string) (Value, bool) {
	v, ok := f.fields[name]
	return v, ok
}

// Fields returns the map from field name to value. Map iteration order is
// not submission order; use FieldOrder for that.
func (f *FormData) Fields() map[string]Value {
	return f.fields
}

// FieldOrder returns field names (excluding file fields) in the order
// they were first seen.
func (f *FormData) FieldOrder() []string {
	out := make([]string, 0, len(f.fields))
	for _, name := range f.order {
		if len(name) > 0 && name[0] == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}

// UploadedFiles returns the raw, not-yet-persisted files by field name.
func (f *FormData) UploadedFiles() map[string][]UploadedFile {
	return f.files
}
