package parser

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"50000", 50000, true},
		{"50k", 50000, true},
		{"50K", 50000, true},
		{"50rb", 50000, true},
		{"1.5jt", 1500000, true},
		{"1,5jt", 1500000, true},
		{"1jt", 1000000, true},
		{"2j", 2000000, true},
		{"1.5k", 1500, true},
		{"1.500rb", 1500000, true},
		{"2.500k", 2500000, true},
		{"1.250jt", 1250000000, true},
		{"2.25jt", 2250000, true},
		{"1.2500k", 1250, true},
		{"50.000", 50000, true},
		{"1.250.000", 1250000, true},
		{"12.500,75", 12501, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"k", 0, false},
		{"jt", 0, false},
		{"", 0, false},
		{"Rp50.000", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
