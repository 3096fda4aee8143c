// Package category assigns a transaction description to one of a fixed set
// of spending/income categories by keyword.
package category

import "strings"

const Other = "lainnya"

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category string
	Keywords []string
}

// rules is evaluated top to bottom and the first hit wins, so order matters:
// "beli kopi" is makan, not belanja.
var rules = []Rule{
	{"makan", []string{"makan", "nasi", "ayam", "mie", "kopi", "minum", "snack", "jajan", "resto", "cafe", "bakso", "sate", "gorengan", "indomie", "boba", "es teh"}},
	{"transport", []string{"grab", "gojek", "ojol", "bensin", "parkir", "tol", "bus", "kereta", "angkot", "taxi", "motor", "bbm"}},
	{"belanja", []string{"beli", "belanja", "shopee", "tokped", "lazada", "toko", "baju", "sepatu", "hp", "gadget"}},
	{"tagihan", []string{"listrik", "air", "wifi", "internet", "pulsa", "kuota", "pln", "indihome", "token"}},
	{"hiburan", []string{"game", "netflix", "spotify", "nonton", "bioskop", "main", "liburan", "wisata", "hangout"}},
	{"kesehatan", []string{"obat", "dokter", "apotek", "rumah sakit", "klinik", "vitamin", "sakit"}},
	{"pendidikan", []string{"buku", "kursus", "les", "sekolah", "kuliah", "ujian", "fotokopi", "print"}},
	{"gaji", []string{"gaji", "salary", "honor", "upah", "bonus", "thr"}},
	{"freelance", []string{"freelance", "project", "klien", "client", "invoice"}},
	{"transfer", []string{"transfer", "tf", "kiriman", "dapat", "terima"}},
}

// Classify returns the category for description, or Other.
func Classify(description string) string {
	if description == "" {
		return Other
	}
	lower := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	return Other
}
