package output

import (
	"strings"
	"testing"

	"github.com/webform-cli/readwebform/internal/formdata"
)

func TestBuildEnvelope_SingleAndRepeatedFields(t *testing.T) {
	form := formdata.New()
	form.AddField("name", "Ada")
	form.AddField("tag", "a")
	form.AddField("tag", "b")

	env := BuildEnvelope(form, nil, true, "")
	if env.Fields["name"] != "Ada" {
		t.Fatalf("got %v", env.Fields["name"])
	}
	tags, ok := env.Fields["tag"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("got %v", env.Fields["tag"])
	}
	if env.Error != nil {
		t.Fatalf("expected nil error, got %v", *env.Error)
	}
}

func TestBuildEnvelope_FailureCarriesErrorMessage(t *testing.T) {
	env := BuildEnvelope(nil, nil, false, "timeout")
	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if env.Error == nil || *env.Error != "timeout" {
		t.Fatalf("got %v", env.Error)
	}
}

func TestBuildEnvelope_StoredFiles(t *testing.T) {
	single := formdata.NewSingleFile(formdata.StoredFile{OriginalFilename: "a.txt", StoredPath: "/tmp/a.txt", SizeBytes: 3, ContentType: "text/plain"})
	multi := formdata.NewMultiFile([]formdata.StoredFile{
		{OriginalFilename: "b1.txt", StoredPath: "/tmp/b1.txt", SizeBytes: 1, ContentType: "text/plain"},
		{OriginalFilename: "b2.txt", StoredPath: "/tmp/b2.txt", SizeBytes: 2, ContentType: "text/plain"},
	})
	stored := map[string]formdata.FileValue{"doc": single, "attachments": multi}

	env := BuildEnvelope(nil, stored, true, "")
	info, ok := env.Files["doc"].(FileInfo)
	if !ok || info.Filename != "a.txt" {
		t.Fatalf("got %v", env.Files["doc"])
	}
	infos, ok := env.Files["attachments"].([]FileInfo)
	if !ok || len(infos) != 2 {
		t.Fatalf("got %v", env.Files["attachments"])
	}
}

func TestFormatJSON_Indented(t *testing.T) {
	env := BuildEnvelope(nil, nil, true, "")
	text, err := FormatJSON(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "{\n  ") {
		t.Fatalf("expected two-space indented JSON, got %q", text)
	}
}
