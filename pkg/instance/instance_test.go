package instance

import "testing"

func TestGetIDPrecedence(t *testing.T) {
	t.Setenv("BOOKSTORE_INSTANCE_ID", "api-7")
	t.Setenv("DYNO", "web.1")
	if got := GetID(); got != "api-7" {
		t.Fatalf("expected explicit id, got %q", got)
	}

	t.Setenv("BOOKSTORE_INSTANCE_ID", "")
	if got := GetID(); got != "web.1" {
		t.Fatalf("expected dyno name, got %q", got)
	}

	t.Setenv("DYNO", "")
	if got := GetID(); got == "" {
		t.Fatal("expected hostname fallback")
	}
}
