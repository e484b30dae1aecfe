package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"-1500.50", -1500.50, true},
		{"-1500,50", -1500.50, true},
		{"45000,00", 45000.00, true},
		{"0", 0, true},
		{" -800.00 ", -800.00, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestRounding(t *testing.T) {
	if got := Round2(0.125); got != 0.13 {
		t.Fatalf("Round2(0.125) = %v, want 0.13", got)
	}
	if got := Round2(-0.125); got != -0.13 {
		t.Fatalf("Round2(-0.125) = %v, want -0.13", got)
	}
	if got := Round2(3.14159); got != 3.14 {
		t.Fatalf("Round2(3.14159) = %v, want 3.14", got)
	}
	if got := Round4(1.0 / 90.0); got != 0.0111 {
		t.Fatalf("Round4(1/90) = %v, want 0.0111", got)
	}
}
