package service

import (
	"fmt"
	"math"

	"confronto-service/internal/confronto/model"
)

const qtyMismatchEps = 1e-6

// BuildPrefixes assigns a unique flat-field prefix to every visible
// contractor. Colliding slugs (same name punctuated differently, for
// instance) get a numeric suffix in contractor order instead of silently
// sharing columns; each collision is reported as a warning.
func BuildPrefixes(visible []model.ImpresaView) (map[model.ImpresaKey]string, []string) {
	prefixes := make(map[model.ImpresaKey]string, len(visible))
	used := make(map[string]bool, len(visible))
	var warnings []string

	for _, iv := range visible {
		key := model.KeyOf(iv)
		if _, ok := prefixes[key]; ok {
			continue // duplicate identity in input, first entry wins
		}
		p := FieldPrefix(iv)
		if used[p] {
			base := p
			for i := 2; ; i++ {
				p = fmt.Sprintf("%s_%d", base, i)
				if !used[p] {
					break
				}
			}
			warnings = append(warnings, fmt.Sprintf(
				"prefix collision: %q renamed to %q for impresa %q", base, p, HeaderLabel(iv)))
		}
		used[p] = true
		prefixes[key] = p
	}
	return prefixes, warnings
}

// BuildRow pivots one voce wide over the visible contractors. Every visible
// contractor gets an entry in row.Offerte even when nothing resolves, so the
// set of keys on a row is exactly the visible set.
func BuildRow(voce model.Voce, index int, visible []model.ImpresaView) model.ConfrontoRow {
	row := model.ConfrontoRow{
		ID:                     fmt.Sprintf("%s-%d", voce.Codice, index),
		Codice:                 voce.Codice,
		Descrizione:            voce.Descrizione,
		DescrizioneEstesa:      voce.DescrizioneEstesa,
		UM:                     voce.UM,
		Quantita:               voce.Quantita,
		PrezzoUnitarioProgetto: voce.PrezzoUnitarioProgetto,
		ImportoTotaleProgetto:  voce.ImportoTotaleProgetto,
		Wbs6Code:               voce.Wbs6Code,
		Wbs6Description:        voce.Wbs6Description,
		Wbs7Code:               voce.Wbs7Code,
		Wbs7Description:        voce.Wbs7Description,
		Offerte:                make(map[model.ImpresaKey]*model.PivotFields, len(visible)),
	}

	idx := NewLabelIndex(voce.Offerte)

	for _, iv := range visible {
		key := model.KeyOf(iv)
		pf := &model.PivotFields{}
		row.Offerte[key] = pf

		off, ambiguous := Resolve(iv, voce.Offerte, idx)
		if off == nil {
			continue
		}
		pf.Ambiguous = ambiguous
		pf.UnitPrice = off.PrezzoUnitario
		pf.TotalAmount = off.ImportoTotale
		pf.Quantity = off.Quantita
		pf.QuantityDelta = off.DeltaQuantita

		if pf.UnitPrice != nil && row.PrezzoUnitarioProgetto != nil && *row.PrezzoUnitarioProgetto != 0 {
			d := (*pf.UnitPrice - *row.PrezzoUnitarioProgetto) / *row.PrezzoUnitarioProgetto * 100
			pf.DeltaVsProject = &d
		}
		if pf.QuantityDelta != nil && math.Abs(*pf.QuantityDelta) > qtyMismatchEps {
			row.HasQuantityMismatch = true
		}
	}

	ComputeStats(&row)
	return row
}

// BuildRows pivots the whole voci list. Row IDs are {codice}-{index} and
// stable only within one build.
func BuildRows(voci []model.Voce, visible []model.ImpresaView) []model.ConfrontoRow {
	rows := make([]model.ConfrontoRow, 0, len(voci))
	for i, v := range voci {
		rows = append(rows, BuildRow(v, i, visible))
	}
	return rows
}
