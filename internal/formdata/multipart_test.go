package formdata

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func buildMultipart(boundary string, parts ...string) (string, string) {
	body := "--" + boundary + "\r\n" + strings.Join(parts, "--"+boundary+"\r\n") + "--" + boundary + "--\r\n"
	contentType := `multipart/form-data; boundary=` + boundary
	return body, contentType
}

func TestDecodeMultipart_FieldPart(t *testing.T) {
	boundary := "XYZ"
	part := "Content-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n"
	body, ct := buildMultipart(boundary, part)

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := fd.Field("x")
	if !ok {
		t.Fatal("expected field x")
	}
	if v.String() != "hello" {
		t.Fatalf("got %q, want %q", v.String(), "hello")
	}
}

func TestDecodeMultipart_RepeatedField(t *testing.T) {
	boundary := "XYZ"
	p1 := "Content-Disposition: form-data; name=\"choice\"\r\n\r\na\r\n"
	p2 := "Content-Disposition: form-data; name=\"choice\"\r\n\r\nb\r\n"
	p3 := "Content-Disposition: form-data; name=\"choice\"\r\n\r\nc\r\n"
	body, ct := buildMultipart(boundary, p1, p2, p3)

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := fd.Field("choice")
	if !ok {
		t.Fatal("expected field choice")
	}
	got := v.Strings()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDecodeMultipart_FilePart(t *testing.T) {
	boundary := "XYZ"
	part := "Content-Disposition: form-data; name=\"document\"; filename=\"test.txt\"\r\n" +
		"Content-Type: text/plain\r\n\r\nHello, World!\r\n"
	body, ct := buildMultipart(boundary, part)

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := fd.UploadedFiles()["document"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	f := files[0]
	if f.Filename != "test.txt" || string(f.Content) != "Hello, World!" || f.ContentType != "text/plain" {
		t.Fatalf("unexpected file: %+v", f)
	}
}

func TestDecodeMultipart_FilePartDefaultsContentType(t *testing.T) {
	boundary := "XYZ"
	part := "Content-Disposition: form-data; name=\"f\"; filename=\"a.bin\"\r\n\r\ndata\r\n"
	body, ct := buildMultipart(boundary, part)

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := fd.UploadedFiles()["f"]
	if files[0].ContentType != "application/octet-stream" {
		t.Fatalf("got %q", files[0].ContentType)
	}
}

func TestDecodeMultipart_FileSizeExceeded(t *testing.T) {
	boundary := "XYZ"
	part := "Content-Disposition: form-data; name=\"f\"; filename=\"a.bin\"\r\n\r\n0123456789\r\n"
	body, ct := buildMultipart(boundary, part)

	_, err := DecodeMultipart([]byte(body), ct, 5, 0)
	if err == nil || errors.Cause(err) != ErrFileSizeExceeded {
		t.Fatalf("expected ErrFileSizeExceeded, got %v", err)
	}
}

func TestDecodeMultipart_TotalSizeExceededBeforeParsing(t *testing.T) {
	body := strings.Repeat("a", 100)
	_, err := DecodeMultipart([]byte(body), "multipart/form-data; boundary=X", 0, 10)
	if err == nil || errors.Cause(err) != ErrTotalSizeExceeded {
		t.Fatalf("expected ErrTotalSizeExceeded, got %v", err)
	}
}

func TestDecodeMultipart_MissingBoundary(t *testing.T) {
	_, err := DecodeMultipart([]byte("whatever"), "multipart/form-data", 0, 0)
	if err == nil || errors.Cause(err) != ErrMalformedMultipart {
		t.Fatalf("expected ErrMalformedMultipart, got %v", err)
	}
}

func TestDecodeMultipart_QuotedBoundary(t *testing.T) {
	boundary := "XYZ"
	part := "Content-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n"
	body, _ := buildMultipart(boundary, part)
	ct := `multipart/form-data; boundary="XYZ"`

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := fd.Field("x"); v.String() != "hello" {
		t.Fatalf("got %q", v.String())
	}
}

func TestDecodeMultipart_BareLFSeparators(t *testing.T) {
	boundary := "XYZ"
	body := "--" + boundary + "\n" +
		"Content-Disposition: form-data; name=\"x\"\n\nhello\n" +
		"--" + boundary + "--\n"
	ct := "multipart/form-data; boundary=" + boundary

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := fd.Field("x"); v.String() != "hello" {
		t.Fatalf("got %q", v.String())
	}
}

func TestDecodeMultipart_InvalidUTF8FieldDegradesToEmpty(t *testing.T) {
	boundary := "XYZ"
	invalid := string([]byte{0xff, 0xfe, 0xfd})
	part := "Content-Disposition: form-data; name=\"x\"\r\n\r\n" + invalid + "\r\n"
	body, ct := buildMultipart(boundary, part)

	fd, err := DecodeMultipart([]byte(body), ct, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := fd.Field("x")
	if v.String() != "" {
		t.Fatalf("expected empty string for invalid utf-8, got %q", v.String())
	}
}

func TestDecodeURLEncoded_RepeatedAndBlank(t *testing.T) {
	fd, err := DecodeURLEncoded([]byte("x=hello&y=&choice=a&choice=b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := fd.Field("x"); v.String() != "hello" {
		t.Fatalf("got %q", v.String())
	}
	if v, _ := fd.Field("y"); v.String() != "" {
		t.Fatalf("expected blank value preserved, got %q", v.String())
	}
	v, _ := fd.Field("choice")
	got := v.Strings()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}
