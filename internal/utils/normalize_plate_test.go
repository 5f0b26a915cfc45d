package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := map[string]string{
		"abc-123":   "ABC123",
		" kja 456 ": "KJA456",
		"LND-72-XY": "LND72XY",
		"":          "",
	}
	for in, want := range cases {
		if got := NormalizePlate(in); got != want {
			t.Fatalf("NormalizePlate(%q) = %q, want %q", in, got, want)
		}
	}
}
