package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"confronto-service/internal/confronto/model"
)

// suffix -> display label for the six per-contractor columns, in contract order
var pivotColumns = []struct {
	suffix string
	label  string
}{
	{"unitPrice", "Prezzo unitario"},
	{"totalAmount", "Importo totale"},
	{"quantity", "Quantita"},
	{"quantityDelta", "Delta quantita"},
	{"deltaVsProject", "Delta vs progetto %"},
	{"deltaVsMean", "Delta vs media %"},
}

var baseColumns = []model.Column{
	{Field: "id", Header: "ID"},
	{Field: "code", Header: "Codice"},
	{Field: "description", Header: "Descrizione"},
	{Field: "unit", Header: "UM"},
	{Field: "quantity", Header: "Quantita"},
	{Field: "projectUnitPrice", Header: "Prezzo unitario progetto"},
	{Field: "projectTotalAmount", Header: "Importo totale progetto"},
	{Field: "wbs6Code", Header: "WBS6"},
	{Field: "wbs7Code", Header: "WBS7"},
	{Field: "meanPrice", Header: "Prezzo medio"},
	{Field: "minPrice", Header: "Prezzo minimo"},
	{Field: "maxPrice", Header: "Prezzo massimo"},
	{Field: "stdDevPrice", Header: "Dev. standard"},
	{Field: "hasQuantityMismatch", Header: "Quantita discordante"},
}

type Service struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Service {
	return &Service{log: log}
}

// Run executes the full pipeline for one request: round filter narrows the
// visible contractors, every voce is pivoted and aggregated over them, then
// the WBS/mismatch row filters apply. Stateless and recomputed per request.
func (s *Service) Run(p model.ConfrontoPayload, f model.Filter) model.Comparison {
	visible := VisibleImprese(p.Imprese, f.Round)
	prefixes, warnings := BuildPrefixes(visible)

	rows := BuildRows(p.Voci, visible)
	rows = ApplyRowFilters(rows, f)

	ambiguous := 0
	for _, r := range rows {
		for key, pf := range r.Offerte {
			if pf.Ambiguous {
				ambiguous++
				s.log.Debug().
					Str("voce", r.Codice).
					Str("impresa", key.Nome).
					Int("round", key.Round).
					Msg("ambiguous offer match, first label kept")
			}
		}
	}
	if ambiguous > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d offer match(es) were ambiguous; first matching label kept", ambiguous))
	}

	return model.Comparison{
		Rows:     rows,
		Visible:  visible,
		Prefixes: prefixes,
		Columns:  buildColumns(visible, prefixes),
		Warnings: warnings,
	}
}

func buildColumns(visible []model.ImpresaView, prefixes map[model.ImpresaKey]string) []model.Column {
	cols := make([]model.Column, 0, len(baseColumns)+len(visible)*len(pivotColumns))
	cols = append(cols, baseColumns...)
	for _, iv := range visible {
		prefix := prefixes[model.KeyOf(iv)]
		header := HeaderLabel(iv)
		for _, pc := range pivotColumns {
			cols = append(cols, model.Column{
				Field:  prefix + "_" + pc.suffix,
				Header: header + " - " + pc.label,
			})
		}
	}
	return cols
}

// Flatten maps one typed row onto the flat field-name contract the grid and
// the export consume. Unresolved fields are emitted as explicit nulls so the
// key set of every row matches the column contract.
func Flatten(row model.ConfrontoRow, visible []model.ImpresaView, prefixes map[model.ImpresaKey]string) map[string]any {
	out := map[string]any{
		"id":                  row.ID,
		"code":                row.Codice,
		"description":         row.Descrizione,
		"extendedDescription": row.DescrizioneEstesa,
		"unit":                row.UM,
		"quantity":            numOrNil(row.Quantita),
		"projectUnitPrice":    numOrNil(row.PrezzoUnitarioProgetto),
		"projectTotalAmount":  numOrNil(row.ImportoTotaleProgetto),
		"wbs6Code":            row.Wbs6Code,
		"wbs6Description":     row.Wbs6Description,
		"wbs7Code":            row.Wbs7Code,
		"wbs7Description":     row.Wbs7Description,
		"meanPrice":           numOrNil(row.MeanPrice),
		"minPrice":            numOrNil(row.MinPrice),
		"maxPrice":            numOrNil(row.MaxPrice),
		"stdDevPrice":         numOrNil(row.StdDevPrice),
		"hasQuantityMismatch": row.HasQuantityMismatch,
	}
	for _, iv := range visible {
		key := model.KeyOf(iv)
		prefix := prefixes[key]
		pf := row.Offerte[key]
		if pf == nil {
			pf = &model.PivotFields{}
		}
		out[prefix+"_unitPrice"] = numOrNil(pf.UnitPrice)
		out[prefix+"_totalAmount"] = numOrNil(pf.TotalAmount)
		out[prefix+"_quantity"] = numOrNil(pf.Quantity)
		out[prefix+"_quantityDelta"] = numOrNil(pf.QuantityDelta)
		out[prefix+"_deltaVsProject"] = numOrNil(pf.DeltaVsProject)
		out[prefix+"_deltaVsMean"] = numOrNil(pf.DeltaVsMean)
	}
	return out
}

// FlattenAll builds the wire Result from one computed Comparison.
func FlattenAll(c model.Comparison, f model.Filter) model.Result {
	rows := make([]map[string]any, 0, len(c.Rows))
	for _, r := range c.Rows {
		rows = append(rows, Flatten(r, c.Visible, c.Prefixes))
	}
	return model.Result{
		Rows:     rows,
		Columns:  c.Columns,
		Warnings: c.Warnings,
		Filter:   f,
	}
}

// untyped nil, so encoding/json writes null instead of a typed nil pointer
func numOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
