package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Offerta — a single contractor offer on a voce, as delivered by the backend.
// All numeric fields are optional; absent or null means "no value", never 0.
type Offerta struct {
	Quantita       *float64 `json:"quantita,omitempty"`
	PrezzoUnitario *float64 `json:"prezzo_unitario,omitempty"`
	ImportoTotale  *float64 `json:"importo_totale,omitempty"`
	DeltaQuantita  *float64 `json:"delta_quantita,omitempty"`
	Criticita      string   `json:"criticita,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// Voce — one bill-of-quantities line item.
type Voce struct {
	Codice                 string      `json:"codice"`
	Descrizione            string      `json:"descrizione"`
	DescrizioneEstesa      string      `json:"descrizione_estesa,omitempty"`
	UM                     string      `json:"um"`
	Quantita               *float64    `json:"quantita"`
	PrezzoUnitarioProgetto *float64    `json:"prezzo_unitario_progetto"`
	ImportoTotaleProgetto  *float64    `json:"importo_totale_progetto"`
	Wbs6Code               string      `json:"wbs6_code,omitempty"`
	Wbs6Description        string      `json:"wbs6_description,omitempty"`
	Wbs7Code               string      `json:"wbs7_code,omitempty"`
	Wbs7Description        string      `json:"wbs7_description,omitempty"`
	Offerte                *OfferteMap `json:"offerte"`
}

// ImpresaView — a contractor identity as seen by the comparison view.
// Etichetta is the free-text label the import assigned; Impresa is the
// backend's normalized label. Both may differ from Nome.
type ImpresaView struct {
	Nome        string `json:"nome"`
	Impresa     string `json:"impresa,omitempty"`
	RoundNumber *int   `json:"round_number,omitempty"`
	Etichetta   string `json:"etichetta,omitempty"`
	RoundLabel  string `json:"round_label,omitempty"`
}

// Round — one negotiation round as delivered by the backend.
type Round struct {
	Numero       int      `json:"numero"`
	Label        string   `json:"label"`
	Imprese      []string `json:"imprese"`
	ImpreseCount int      `json:"imprese_count"`
}

// ConfrontoPayload — the full response of GET /commesse/{id}/confronto.
type ConfrontoPayload struct {
	Voci    []Voce        `json:"voci"`
	Imprese []ImpresaView `json:"imprese"`
	Rounds  []Round       `json:"rounds"`
}

// ImpresaKey identifies a contractor within one comparison: same name in two
// different rounds is two distinct contractors. Round is -1 when the impresa
// is not round-scoped.
type ImpresaKey struct {
	Nome  string
	Round int
}

// NoRound is the ImpresaKey.Round sentinel for un-scoped imprese.
const NoRound = -1

func KeyOf(iv ImpresaView) ImpresaKey {
	k := ImpresaKey{Nome: iv.Nome, Round: NoRound}
	if iv.RoundNumber != nil {
		k.Round = *iv.RoundNumber
	}
	return k
}

// PivotFields — one contractor's slice of a ConfrontoRow. A nil field means
// the offer was not resolved or the source field was absent.
type PivotFields struct {
	UnitPrice      *float64
	TotalAmount    *float64
	Quantity       *float64
	QuantityDelta  *float64
	DeltaVsProject *float64
	DeltaVsMean    *float64
	Ambiguous      bool // fallback match had more than one candidate
}

// ConfrontoRow — one voce pivoted wide over the visible contractors.
// Offerte always holds one entry per visible contractor (empty PivotFields
// when nothing resolved), so consumers never see a missing key.
type ConfrontoRow struct {
	ID                     string
	Codice                 string
	Descrizione            string
	DescrizioneEstesa      string
	UM                     string
	Quantita               *float64
	PrezzoUnitarioProgetto *float64
	ImportoTotaleProgetto  *float64
	Wbs6Code               string
	Wbs6Description        string
	Wbs7Code               string
	Wbs7Description        string

	Offerte map[ImpresaKey]*PivotFields

	MeanPrice           *float64
	MinPrice            *float64
	MaxPrice            *float64
	StdDevPrice         *float64
	HasQuantityMismatch bool
}

// Filter — the three independent filter axes of the comparison view.
// Round == nil means "all rounds".
type Filter struct {
	Round        *int   `json:"round,omitempty"`
	Wbs6         string `json:"wbs6,omitempty"`
	Wbs7         string `json:"wbs7,omitempty"`
	OnlyMismatch bool   `json:"onlyMismatch,omitempty"`
}

// Column — one grid/export column: flat field name plus display header.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// Comparison — the typed output of a full pivot+stats+filter run.
type Comparison struct {
	Rows     []ConfrontoRow
	Visible  []ImpresaView
	Prefixes map[ImpresaKey]string
	Columns  []Column
	Warnings []string
}

// Result — the wire response: flattened rows plus the column contract and an
// echo of the applied filter.
type Result struct {
	Rows     []map[string]any `json:"rows"`
	Columns  []Column         `json:"columns"`
	Warnings []string         `json:"warnings,omitempty"`
	Filter   Filter           `json:"filter"`
}

// RigaRitorno — one parsed row of an uploaded contractor return computo.
type RigaRitorno struct {
	Codice         string
	Quantita       *float64
	PrezzoUnitario *float64
	ImportoTotale  *float64
}

// OfferteMap is an insertion-ordered label -> Offerta map. The order labels
// arrive in from the backend is load-bearing: the resolver's fallback pass is
// first-match-wins over that order, so a plain Go map would make resolution
// nondeterministic.
type OfferteMap struct {
	labels  []string
	byLabel map[string]Offerta
}

func NewOfferteMap() *OfferteMap {
	return &OfferteMap{byLabel: make(map[string]Offerta)}
}

func (m *OfferteMap) Set(label string, o Offerta) {
	if m.byLabel == nil {
		m.byLabel = make(map[string]Offerta)
	}
	if _, ok := m.byLabel[label]; !ok {
		m.labels = append(m.labels, label)
	}
	m.byLabel[label] = o
}

func (m *OfferteMap) Get(label string) (Offerta, bool) {
	if m == nil || m.byLabel == nil {
		return Offerta{}, false
	}
	o, ok := m.byLabel[label]
	return o, ok
}

// Labels returns the labels in insertion order. The slice is shared; callers
// must not mutate it.
func (m *OfferteMap) Labels() []string {
	if m == nil {
		return nil
	}
	return m.labels
}

func (m *OfferteMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

func (m *OfferteMap) UnmarshalJSON(data []byte) error {
	*m = OfferteMap{byLabel: make(map[string]Offerta)}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // "offerte": null
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("offerte: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("offerte: non-string key %v", keyTok)
		}
		var o Offerta
		if err := dec.Decode(&o); err != nil {
			return fmt.Errorf("offerte[%q]: %w", label, err)
		}
		m.Set(label, o)
	}
	_, err = dec.Token() // closing '}'
	return err
}

func (m *OfferteMap) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.labels) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range m.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.byLabel[label])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
