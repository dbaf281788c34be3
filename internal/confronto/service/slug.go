package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"confronto-service/internal/confronto/model"
)

// decompose accents, drop the combining marks, recompose
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a free-text label into a stable field-key: accents stripped,
// every run of non-alphanumerics collapsed to a single underscore, lowercased.
// Never empty: a label with no usable characters becomes "impresa".
func Slugify(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = nonAlnum.ReplaceAllString(out, "_")
	out = strings.Trim(out, "_")
	if out == "" {
		return "impresa"
	}
	return out
}

// FieldPrefix derives the flat-field prefix for a contractor. Round-scoped
// imprese get the round baked in so the same name across rounds stays
// distinct.
func FieldPrefix(iv model.ImpresaView) string {
	name := strings.TrimSpace(iv.Nome)
	if name == "" {
		if iv.RoundNumber != nil {
			name = fmt.Sprintf("impresa_%d", *iv.RoundNumber)
		} else {
			name = "impresa_all"
		}
	}
	if iv.RoundNumber != nil {
		return Slugify(fmt.Sprintf("%s_round_%d", name, *iv.RoundNumber))
	}
	return Slugify(name)
}

// HeaderLabel builds the human column header for a contractor.
func HeaderLabel(iv model.ImpresaView) string {
	if iv.RoundNumber == nil {
		return iv.Nome
	}
	rl := strings.TrimSpace(iv.RoundLabel)
	if rl == "" {
		rl = fmt.Sprintf("Round %d", *iv.RoundNumber)
	}
	return fmt.Sprintf("%s - %s", iv.Nome, rl)
}
