package service

import (
	"math"
	"strings"

	"confronto-service/internal/confronto/model"
)

// severity bucket thresholds for the quantity delta of a merged ritorno
const (
	criticitaAlta  = 0.10 // |delta| above 10% of the project quantity
	criticitaMedia = qtyMismatchEps
)

// MergeRitorno injects a parsed contractor return computo into the payload
// under the given offer label, matching rows to voci by codice and deriving
// delta_quantita against the project quantity. Rows whose codice is unknown
// are skipped and counted. If no existing impresa answers to the label, a
// bare identity is appended so the new offers show up as columns.
func MergeRitorno(p *model.ConfrontoPayload, label string, righe []model.RigaRitorno) (matched, skipped int) {
	byCodice := make(map[string]int, len(p.Voci))
	for i, v := range p.Voci {
		if v.Codice != "" {
			if _, ok := byCodice[v.Codice]; !ok {
				byCodice[v.Codice] = i
			}
		}
	}

	for _, riga := range righe {
		i, ok := byCodice[strings.TrimSpace(riga.Codice)]
		if !ok {
			skipped++
			continue
		}
		voce := &p.Voci[i]

		off := model.Offerta{
			Quantita:       riga.Quantita,
			PrezzoUnitario: riga.PrezzoUnitario,
			ImportoTotale:  riga.ImportoTotale,
		}
		if riga.Quantita != nil && voce.Quantita != nil {
			d := *riga.Quantita - *voce.Quantita
			off.DeltaQuantita = &d
			off.Criticita = criticita(d, *voce.Quantita)
		}

		if voce.Offerte == nil {
			voce.Offerte = model.NewOfferteMap()
		}
		voce.Offerte.Set(label, off)
		matched++
	}

	if !hasImpresaFor(p.Imprese, label) {
		p.Imprese = append(p.Imprese, model.ImpresaView{Nome: strings.TrimSpace(label)})
	}
	return matched, skipped
}

func criticita(delta, projectQty float64) string {
	ad := math.Abs(delta)
	if ad <= criticitaMedia {
		return ""
	}
	if projectQty != 0 && ad > criticitaAlta*math.Abs(projectQty) {
		return "alta"
	}
	return "media"
}

func hasImpresaFor(imprese []model.ImpresaView, label string) bool {
	want := strings.ToLower(strings.TrimSpace(label))
	for _, iv := range imprese {
		for _, f := range []string{iv.Nome, iv.Etichetta, iv.Impresa} {
			if strings.ToLower(strings.TrimSpace(f)) == want && want != "" {
				return true
			}
		}
	}
	return false
}
