package util

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "  A@X.com ", want: "a@x.com"},
		{raw: "User@Example.ORG", want: "user@example.org"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		if got := NormalizeAddress(tt.raw); got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{addr: "a@x.com", want: true},
		{addr: "first.last@sub.example.org", want: true},
		{addr: "", want: false},
		{addr: "plainstring", want: false},
		{addr: "missing@tld", want: false},
		{addr: "two@@x.com", want: false},
		{addr: "spaces in@x.com", want: false},
	}
	for _, tt := range tests {
		if got := ValidAddress(tt.addr); got != tt.want {
			t.Errorf("ValidAddress(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("NewID() = %q, want 26-char ULID", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
