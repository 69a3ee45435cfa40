package utils

import (
	"strings"
	"testing"
)

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID("PAY")
	if !strings.HasPrefix(id, "PAY-") {
		t.Fatalf("missing prefix: %q", id)
	}
	if len(id) != len("PAY-")+32 {
		t.Fatalf("unexpected length %d: %q", len(id), id)
	}
	if strings.Contains(id[4:], "-") {
		t.Fatalf("uuid dashes not stripped: %q", id)
	}

	other := GenerateTransactionID("PAY")
	if id == other {
		t.Fatalf("two generated ids collide: %q", id)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.125, 0.13},
		{-0.125, -0.13},
		{3.14159, 3.14},
		{1234.5678, 1234.57},
		{2500, 2500},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Fatalf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
