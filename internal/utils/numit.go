package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.,\-]`)

// ParseFloatIT parses Italian-formatted numbers: "1.234,56", "1 234,56"
// (NBSP/NNBSP grouping), "-12,5", plain "1234.56". When both separators are
// present the last one is the decimal mark; a lone comma is always decimal.
func ParseFloatIT(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", " ", "", "\t", "")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot { // 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else { // 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		// a comma is the decimal mark, never grouping, in it-IT exports
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1: // 1.234.567 grouping only
		s = strings.ReplaceAll(s, ".", "")
	}

	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
