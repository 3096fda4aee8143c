// Package parser turns the short free-text tokens users type into the bot
// ("50k", "1,5jt", "besok 08:00") into amounts and instants.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountJunkRE   = regexp.MustCompile(`[^\d.,kjtrb]`)
	amountPrefixRE = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// ParseAmount converts an amount token into whole rupiah.
//
//	"50000" -> 50000, "50k"/"50rb" -> 50000, "1.5jt"/"1,5jt" -> 1500000, "1.250.000" -> 1250000
//
// ok is false when no number can be read. A zero or negative result is still
// ok; callers decide whether it is acceptable.
func ParseAmount(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	cleaned := amountJunkRE.ReplaceAllString(strings.ToLower(text), "")

	multiplier := decimal.NewFromInt(1)
	switch {
	case strings.Contains(cleaned, "k") || strings.Contains(cleaned, "rb"):
		multiplier = thousand
		cleaned = strings.Map(dropRunes("kjtrb"), cleaned)
	case strings.Contains(cleaned, "jt") || strings.Contains(cleaned, "j"):
		multiplier = million
		cleaned = strings.Map(dropRunes("jt"), cleaned)
	}

	// '.' groups thousands and ',' marks decimals, except that a lone '.'
	// before a multiplier is a decimal point unless exactly three digits
	// follow it: "1.5jt" is 1.5 million, "1.500rb" is 1500 thousand.
	lonePoint := !multiplier.Equal(decimal.NewFromInt(1)) &&
		strings.Count(cleaned, ".") == 1 && !strings.Contains(cleaned, ",") &&
		digitsAfterPoint(cleaned) != 3
	if !lonePoint {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	// read the leading number only, like a lenient float parse would
	num := amountPrefixRE.FindString(cleaned)
	if num == "" {
		return 0, false
	}
	num = strings.TrimSuffix(num, ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, false
	}
	return d.Mul(multiplier).Round(0).IntPart(), true
}

func digitsAfterPoint(s string) int {
	_, frac, _ := strings.Cut(s, ".")
	n := 0
	for n < len(frac) && frac[n] >= '0' && frac[n] <= '9' {
		n++
	}
	return n
}

func dropRunes(set string) func(rune) rune {
	return func(r rune) rune {
		if strings.ContainsRune(set, r) {
			return -1
		}
		return r
	}
}
