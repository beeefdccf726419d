package trustlist

import (
	"testing"

	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	checker := NewChecker([]string{"Example.com", "  corp.internal  ", ""}, zap.NewNop())

	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"EXAMPLE.COM", true},
		{"mail.example.com", true},
		{"a.b.example.com", true},
		{"corp.internal", true},
		{"notexample.com", false},
		{"example.com.evil.tk", false},
		{"other.org", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := checker.IsTrusted(tt.host); got != tt.want {
			t.Errorf("IsTrusted(%q) = %t, want %t", tt.host, got, tt.want)
		}
	}
}

func TestIsTrustedEmptyList(t *testing.T) {
	checker := NewChecker(nil, zap.NewNop())

	if checker.IsTrusted("example.com") {
		t.Error("empty trustlist must trust nothing")
	}
}
