package category

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"makan siang di cafe", "makan"},
		{"Makan Siang", "makan"},
		{"random stuff", Other},
		{"", Other},
		{"bensin motor", "transport"},
		{"bayar listrik", "tagihan"},
		{"nonton netflix", "hiburan"},
		{"beli obat di apotek", "belanja"},
		{"ke rumah sakit", "kesehatan"},
		{"bayar kursus", "pendidikan"},
		{"gaji", "gaji"},
		{"invoice klien", "freelance"},
		{"terima transfer", "transfer"},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Fatalf("Classify(%q) = %s; want %s", tc.in, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// both a food and a shopping keyword: makan is earlier in the table
	if got := Classify("beli kopi"); got != "makan" {
		t.Fatalf("got %s; want makan", got)
	}
	// transport precedes shopping
	if got := Classify("ongkos grab ke toko"); got != "transport" {
		t.Fatalf("got %s; want transport", got)
	}
}
