package pagesize

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		token      string
		wantWidth  float64
		wantHeight float64
	}{
		{"A4", 595.28, 841.89},
		{"a4", 595.28, 841.89},
		{"A3", 841.89, 1190.55},
		{"letter", 612.00, 792.00},
	}

	for _, tc := range tests {
		size, err := Lookup(tc.token)
		if err != nil {
			t.Errorf("Lookup(%q): unexpected error: %v", tc.token, err)
			continue
		}
		if size.Width != tc.wantWidth || size.Height != tc.wantHeight {
			t.Errorf("Lookup(%q) = %fx%f, want %fx%f",
				tc.token, size.Width, size.Height, tc.wantWidth, tc.wantHeight)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("B9")
	if !errors.Is(err, ErrUnknownSize) {
		t.Errorf("expected ErrUnknownSize, got %v", err)
	}
}

func TestTokens_StableAndComplete(t *testing.T) {
	tokens := Tokens()
	if len(tokens) < 4 {
		t.Fatalf("expected at least 4 page sizes, got %d", len(tokens))
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i-1] >= tokens[i] {
			t.Errorf("tokens not sorted: %q before %q", tokens[i-1], tokens[i])
		}
	}
}
