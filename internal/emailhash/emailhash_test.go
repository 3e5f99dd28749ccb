package emailhash

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "User@Example.COM", "user@example.com"},
		{"trim", "  user@example.com  ", "user@example.com"},
		{"already_normal", "user@example.com", "user@example.com"},
		{"tabs_and_newlines", "\tuser@example.com\n", "user@example.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Normalize(test.input); got != test.want {
				t.Errorf("Normalize(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash("user@example.com")
	b := Hash("user@example.com")
	if a != b {
		t.Fatalf("hash not deterministic: %s != %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Errorf("hash is not 64 hex chars: %s", a)
	}
}

func TestHash_NormalizesBeforeHashing(t *testing.T) {
	if Hash("  User@Example.com ") != Hash("user@example.com") {
		t.Error("expected equivalent addresses to hash identically")
	}
}

func TestHash_DistinctInputs(t *testing.T) {
	if Hash("a@example.com") == Hash("b@example.com") {
		t.Error("distinct addresses must not collide trivially")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"a@b", true},
		{"not-an-email", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsValid(test.email); got != test.want {
			t.Errorf("IsValid(%q) = %v, want %v", test.email, got, test.want)
		}
	}
}
