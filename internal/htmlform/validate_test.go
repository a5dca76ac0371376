package htmlform

import "testing"

func TestValidate_SingleFormWithSubmitButton(t *testing.T) {
	result, err := Validate(`<html><body><form action="/go"><button type="submit">Go</button></form></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FormCount != 1 || !result.HasSubmitButton || result.FormAction != "/go" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestValidate_InputTypeSubmitCounts(t *testing.T) {
	result, err := Validate(`<form><input type="submit" value="Go"></form>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasSubmitButton {
		t.Fatal("expected HasSubmitButton")
	}
}

func TestValidate_NoFormsDetected(t *testing.T) {
	result, err := Validate(`<html><body><p>no form here</p></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FormCount != 0 {
		t.Fatalf("expected zero forms, got %d", result.FormCount)
	}
}

func TestValidate_MultipleForms(t *testing.T) {
	result, err := Validate(`<form></form><form></form>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FormCount != 2 {
		t.Fatalf("expected 2 forms, got %d", result.FormCount)
	}
}

func TestIsExternalURL(t *testing.T) {
	cases := map[string]bool{
		"/relative/path":       false,
		"":                     false,
		"https://evil.example": true,
		"http://evil.example":  true,
		"//evil.example":       true,
	}
	for in, want := range cases {
		if got := IsExternalURL(in); got != want {
			t.Fatalf("IsExternalURL(%q) = %v, want %v", in, got, want)
		}
	}
}
