package fileio

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"confronto-service/internal/confronto/model"
	"confronto-service/internal/utils"
)

// wanted ritorno columns, with the alternatives seen across Primus/Excel
// exports ("|"-separated, first one is the primary)
const (
	wantCodice   = "codice|articolo|tariffa|cod"
	wantQuantita = "quantita|qta|q.ta"
	wantPrezzo   = "prezzo unitario|prezzo"
	wantImporto  = "importo totale|importo"
)

var rxHeaderKey = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normHeaderKey: lowercase, NBSP to space, accents folded ("quantità" ==
// "quantita"), punctuation to single spaces, collapsed.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(foldAccents, s); err == nil {
		s = out
	}
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	s = rxHeaderKey.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real column name for a wanted header. Supports
// "a|b|c" alternatives, exact match first, then normalized, then
// containment either way (composite headers like "quantita offerta").
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nAlts []string
	for _, a := range alts {
		nAlts = append(nAlts, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nAlts {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nAlts {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// mapsToRighe maps generic header records onto ritorno rows. Rows without a
// codice are dropped; unparsable numbers stay nil rather than becoming 0.
func mapsToRighe(maps []map[string]string) []model.RigaRitorno {
	righe := make([]model.RigaRitorno, 0, len(maps))
	for _, rec := range maps {
		codKey := resolveKey(rec, wantCodice)
		cod := strings.TrimSpace(rec[codKey])
		if cod == "" {
			continue
		}
		riga := model.RigaRitorno{Codice: cod}
		riga.Quantita = parseCell(rec, wantQuantita)
		riga.PrezzoUnitario = parseCell(rec, wantPrezzo)
		riga.ImportoTotale = parseCell(rec, wantImporto)
		righe = append(righe, riga)
	}
	return righe
}

func parseCell(rec map[string]string, want string) *float64 {
	k := resolveKey(rec, want)
	if k == "" {
		return nil
	}
	if f, ok := utils.ParseFloatIT(rec[k]); ok {
		return &f
	}
	return nil
}
