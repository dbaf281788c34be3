package service

import (
	"testing"

	"confronto-service/internal/confronto/model"
)

func offerte(t *testing.T, pairs ...any) *model.OfferteMap {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("offerte: odd pairs")
	}
	m := model.NewOfferteMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(model.Offerta))
	}
	return m
}

func priced(p float64) model.Offerta {
	return model.Offerta{PrezzoUnitario: &p}
}

func resolvePrice(t *testing.T, iv model.ImpresaView, m *model.OfferteMap) (*float64, bool) {
	t.Helper()
	off, amb := Resolve(iv, m, NewLabelIndex(m))
	if off == nil {
		return nil, amb
	}
	return off.PrezzoUnitario, amb
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	m := offerte(t, "ACME", priced(1), "ACME SPA", priced(2))
	p, amb := resolvePrice(t, model.ImpresaView{Nome: "ACME"}, m)
	if p == nil || *p != 1 {
		t.Fatalf("want exact hit on ACME, got %v", p)
	}
	if amb {
		t.Fatal("exact hit must not be flagged ambiguous")
	}
}

func TestResolveExactIsCaseAndSpaceInsensitive(t *testing.T) {
	m := offerte(t, "  acme  ", priced(7))
	p, _ := resolvePrice(t, model.ImpresaView{Nome: "ACME"}, m)
	if p == nil || *p != 7 {
		t.Fatalf("want 7, got %v", p)
	}
}

func TestResolveRoundSuffixVariants(t *testing.T) {
	iv := model.ImpresaView{Nome: "ACME", RoundNumber: intp(2)}
	for _, label := range []string{"ACME (Round 2)", "ACME Round 2", "ACME - Round 2"} {
		m := offerte(t, label, priced(5))
		p, _ := resolvePrice(t, iv, m)
		if p == nil || *p != 5 {
			t.Fatalf("label %q not resolved", label)
		}
	}

	// a label tagged with a different round must not leak in via the
	// bare-name substring fallback
	m := offerte(t, "ACME (Round 3)", priced(5))
	if p, _ := resolvePrice(t, iv, m); p != nil {
		t.Fatalf("wrong-round label resolved to %v", *p)
	}
	m = offerte(t, "Ditta Bianchi", priced(5))
	if p, _ := resolvePrice(t, iv, m); p != nil {
		t.Fatalf("unrelated label resolved to %v", *p)
	}
}

func TestResolveRoundLabelVariants(t *testing.T) {
	iv := model.ImpresaView{Nome: "ACME", RoundNumber: intp(1), RoundLabel: "Offerta migliorativa"}
	for _, label := range []string{"ACME (Offerta migliorativa)", "ACME - Offerta migliorativa"} {
		m := offerte(t, label, priced(3))
		p, _ := resolvePrice(t, iv, m)
		if p == nil || *p != 3 {
			t.Fatalf("label %q not resolved", label)
		}
	}
}

func TestResolveFallbackFirstWins(t *testing.T) {
	m := offerte(t, "ACME Costruzioni", priced(1), "Gruppo ACME", priced(2))
	p, amb := resolvePrice(t, model.ImpresaView{Nome: "ACME"}, m)
	if p == nil || *p != 1 {
		t.Fatalf("want first label in insertion order, got %v", p)
	}
	if !amb {
		t.Fatal("two substring hits must be flagged ambiguous")
	}
}

func TestResolveFallbackBidirectional(t *testing.T) {
	// candidate contains the label, not the other way round
	m := offerte(t, "ACME", priced(9))
	p, _ := resolvePrice(t, model.ImpresaView{Nome: "ACME Costruzioni Generali"}, m)
	if p == nil || *p != 9 {
		t.Fatalf("want containment in either direction, got %v", p)
	}
}

func TestResolveUsesEtichettaAndImpresa(t *testing.T) {
	m := offerte(t, "Lotto 3 - Colombo", priced(4))
	iv := model.ImpresaView{Nome: "Colombo S.p.A.", Etichetta: "Lotto 3 - Colombo"}
	p, _ := resolvePrice(t, iv, m)
	if p == nil || *p != 4 {
		t.Fatalf("etichetta not used, got %v", p)
	}

	m = offerte(t, "colombo spa", priced(6))
	iv = model.ImpresaView{Nome: "Colombo S.p.A.", Impresa: "Colombo SPA"}
	p, _ = resolvePrice(t, iv, m)
	if p == nil || *p != 6 {
		t.Fatalf("normalized label not used, got %v", p)
	}
}

func TestResolveEmptyOffers(t *testing.T) {
	p, _ := resolvePrice(t, model.ImpresaView{Nome: "ACME"}, model.NewOfferteMap())
	if p != nil {
		t.Fatal("empty offers must resolve to nil")
	}
}

func TestResolveBlankIdentity(t *testing.T) {
	m := offerte(t, "ACME", priced(1))
	p, _ := resolvePrice(t, model.ImpresaView{Nome: "   "}, m)
	if p != nil {
		t.Fatal("blank identity must resolve to nil")
	}
}
