package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOfferteMapPreservesOrder(t *testing.T) {
	raw := `{"Impresa X (Round 1)":{"prezzo_unitario":90},"Impresa A":{"prezzo_unitario":80},"Impresa M":{}}`
	var m OfferteMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"Impresa X (Round 1)", "Impresa A", "Impresa M"}
	if !reflect.DeepEqual(m.Labels(), want) {
		t.Fatalf("labels = %v, want %v", m.Labels(), want)
	}

	off, ok := m.Get("Impresa X (Round 1)")
	if !ok || off.PrezzoUnitario == nil || *off.PrezzoUnitario != 90 {
		t.Fatalf("offer lost: %+v ok=%v", off, ok)
	}

	out, err := json.Marshal(&m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back OfferteMap
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Labels(), want) {
		t.Fatalf("order lost on marshal: %v", back.Labels())
	}
}

func TestOfferteMapNull(t *testing.T) {
	var v Voce
	if err := json.Unmarshal([]byte(`{"codice":"A01","offerte":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Offerte.Len() != 0 {
		t.Fatalf("null offerte must be empty, got %d", v.Offerte.Len())
	}
}

func TestOfferteMapSetOverwritesInPlace(t *testing.T) {
	m := NewOfferteMap()
	m.Set("a", Offerta{Note: "one"})
	m.Set("b", Offerta{})
	m.Set("a", Offerta{Note: "two"})
	if !reflect.DeepEqual(m.Labels(), []string{"a", "b"}) {
		t.Fatalf("labels = %v", m.Labels())
	}
	off, _ := m.Get("a")
	if off.Note != "two" {
		t.Fatalf("note = %q", off.Note)
	}
}

func TestKeyOf(t *testing.T) {
	n := 2
	if k := KeyOf(ImpresaView{Nome: "ACME", RoundNumber: &n}); k != (ImpresaKey{Nome: "ACME", Round: 2}) {
		t.Fatalf("key = %+v", k)
	}
	if k := KeyOf(ImpresaView{Nome: "ACME"}); k.Round != NoRound {
		t.Fatalf("key = %+v", k)
	}
}
