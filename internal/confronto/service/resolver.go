package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"confronto-service/internal/confronto/model"
)

var rxRoundTag = regexp.MustCompile(`round\s*(\d+)`)

// LabelIndex — per-voce lookup structure over the raw offer labels.
// Built once per voce, shared by every contractor resolution on that row.
type LabelIndex struct {
	labels []string       // original order, original form
	norm   []string       // lowercase-trimmed, parallel to labels
	exact  map[string]int // normalized label -> first index
}

func NewLabelIndex(offerte *model.OfferteMap) *LabelIndex {
	idx := &LabelIndex{exact: make(map[string]int, offerte.Len())}
	for _, label := range offerte.Labels() {
		n := strings.ToLower(strings.TrimSpace(label))
		idx.labels = append(idx.labels, label)
		idx.norm = append(idx.norm, n)
		if _, ok := idx.exact[n]; !ok {
			idx.exact[n] = len(idx.labels) - 1
		}
	}
	return idx
}

// Candidates builds the ordered candidate strings for a contractor: each
// non-blank identity field as-is plus its round-suffixed variants, all
// lowercase-trimmed, duplicates dropped keeping the first occurrence.
func Candidates(iv model.ImpresaView) []string {
	bases := make([]string, 0, 3)
	for _, b := range []string{iv.Nome, iv.Etichetta, iv.Impresa} {
		if s := strings.TrimSpace(b); s != "" {
			bases = append(bases, s)
		}
	}

	var raw []string
	for _, base := range bases {
		raw = append(raw, base)
		if iv.RoundNumber != nil {
			n := *iv.RoundNumber
			raw = append(raw,
				fmt.Sprintf("%s (Round %d)", base, n),
				fmt.Sprintf("%s Round %d", base, n),
				fmt.Sprintf("%s - Round %d", base, n),
			)
		}
		if rl := strings.TrimSpace(iv.RoundLabel); rl != "" {
			raw = append(raw,
				fmt.Sprintf("%s (%s)", base, rl),
				fmt.Sprintf("%s - %s", base, rl),
			)
		}
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Resolve finds the offer belonging to a contractor among a voce's labels.
// Exact candidate hits win outright; otherwise the first label passing a
// bidirectional substring test is taken. ambiguous reports that the fallback
// pass had more than one passing label (first-wins is kept, callers may warn).
func Resolve(iv model.ImpresaView, offerte *model.OfferteMap, idx *LabelIndex) (off *model.Offerta, ambiguous bool) {
	cands := Candidates(iv)
	if len(cands) == 0 || offerte.Len() == 0 {
		return nil, false
	}

	for _, c := range cands {
		if i, ok := idx.exact[c]; ok {
			o, _ := offerte.Get(idx.labels[i])
			return &o, false
		}
	}

	// fallback: substring containment either way, first label wins. A label
	// tagged with a different round never belongs to this contractor, so a
	// bare-name containment hit on it would be a cross-round false positive.
	first := -1
	hits := 0
	for i, n := range idx.norm {
		if n == "" || conflictsWithRound(n, iv.RoundNumber) {
			continue
		}
		for _, c := range cands {
			if strings.Contains(n, c) || strings.Contains(c, n) {
				if first < 0 {
					first = i
				}
				hits++
				break
			}
		}
	}
	if first < 0 {
		return nil, false
	}
	o, _ := offerte.Get(idx.labels[first])
	return &o, hits > 1
}

func conflictsWithRound(normLabel string, round *int) bool {
	if round == nil {
		return false
	}
	m := rxRoundTag.FindStringSubmatch(normLabel)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	return err == nil && n != *round
}
