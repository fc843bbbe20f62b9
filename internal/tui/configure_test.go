package tui

import "testing"

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"short key fully masked", "sk-12345", "********"},
		{"long key keeps edges", "sk-1234567890abcdef", "sk-1***********cdef"},
		{"empty key", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskKey(tt.key); got != tt.want {
				t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	t.Run("notEmpty", func(t *testing.T) {
		v := notEmpty("model")
		if err := v("whisper-1"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := v("   "); err == nil {
			t.Error("whitespace-only value should fail")
		}
	})

	t.Run("atLeastOne", func(t *testing.T) {
		v := atLeastOne("paste backend")
		if err := v([]string{"wtype"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := v(nil); err == nil {
			t.Error("empty selection should fail")
		}
	})
}
