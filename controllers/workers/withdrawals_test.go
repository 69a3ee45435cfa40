package workers

import "testing"

func TestMaskAccountNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"12345678", "12345678"},
		{"123456789", "1234****6789"},
		{"01712345678", "0171****5678"},
	}
	for _, c := range cases {
		if got := MaskAccountNumber(c.in); got != c.want {
			t.Fatalf("MaskAccountNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
