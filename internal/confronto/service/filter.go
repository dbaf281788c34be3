package service

import "confronto-service/internal/confronto/model"

// VisibleImprese narrows the contractor list to one round, or returns it
// unchanged when round is nil ("all"). Imprese without a round number only
// appear in the "all" view.
func VisibleImprese(imprese []model.ImpresaView, round *int) []model.ImpresaView {
	if round == nil {
		return imprese
	}
	out := make([]model.ImpresaView, 0, len(imprese))
	for _, iv := range imprese {
		if iv.RoundNumber != nil && *iv.RoundNumber == *round {
			out = append(out, iv)
		}
	}
	return out
}

// ApplyRowFilters applies the WBS scope and quantity-mismatch predicates.
// Both are pure row filters over already-pivoted rows; order is irrelevant.
func ApplyRowFilters(rows []model.ConfrontoRow, f model.Filter) []model.ConfrontoRow {
	out := make([]model.ConfrontoRow, 0, len(rows))
	for _, r := range rows {
		if f.Wbs6 != "" && r.Wbs6Code != f.Wbs6 {
			continue
		}
		if f.Wbs7 != "" && r.Wbs7Code != f.Wbs7 {
			continue
		}
		if f.OnlyMismatch && !r.HasQuantityMismatch {
			continue
		}
		out = append(out, r)
	}
	return out
}
