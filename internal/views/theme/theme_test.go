package theme

import (
	"testing"

	"versenest/models"
)

func TestByKeyFallsBackToDefault(t *testing.T) {
	if got := ByKey("unknown"); got.Key != DefaultKey {
		t.Fatalf("expected fallback to %q, got %q", DefaultKey, got.Key)
	}
	if got := ByKey("inkwell"); got.Key != "inkwell" {
		t.Fatalf("expected inkwell palette, got %q", got.Key)
	}
}

func TestForRole(t *testing.T) {
	if got := ForRole(models.RoleWriter); got.Key != "inkwell" {
		t.Fatalf("writer palette = %q, want inkwell", got.Key)
	}
	if got := ForRole(models.RoleReader); got.Key != "lantern" {
		t.Fatalf("reader palette = %q, want lantern", got.Key)
	}
	if got := ForRole(""); got.Key != DefaultKey {
		t.Fatalf("unauthenticated palette = %q, want %q", got.Key, DefaultKey)
	}
}
