package fileio

import (
	"bytes"
	"strings"
	"testing"

	excelize "github.com/xuri/excelize/v2"
)

func TestReadRitornoCSVSemicolon(t *testing.T) {
	csv := "Codice;Descrizione;Quantita;Prezzo unitario;Importo totale\n" +
		"A01;Scavo di sbancamento;10,5;12,00;126,00\n" +
		"B02;Muratura;;1.250,50;\n" +
		";;;;\n"
	righe, err := ReadRitorno(strings.NewReader(csv), "ritorno.csv", 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(righe) != 2 {
		t.Fatalf("want 2 righe, got %d", len(righe))
	}
	if righe[0].Codice != "A01" || righe[0].Quantita == nil || *righe[0].Quantita != 10.5 {
		t.Fatalf("riga 0 = %+v", righe[0])
	}
	if righe[0].PrezzoUnitario == nil || *righe[0].PrezzoUnitario != 12 {
		t.Fatalf("riga 0 prezzo = %v", righe[0].PrezzoUnitario)
	}
	if righe[1].Quantita != nil {
		t.Fatal("empty cell must stay nil, not 0")
	}
	if righe[1].PrezzoUnitario == nil || *righe[1].PrezzoUnitario != 1250.5 {
		t.Fatalf("riga 1 prezzo = %v", righe[1].PrezzoUnitario)
	}
}

func TestReadRitornoCSVCommaDelimiter(t *testing.T) {
	csv := "codice,quantita,prezzo unitario\nA01,3,9.5\n"
	righe, err := ReadRitorno(strings.NewReader(csv), "r.csv", 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(righe) != 1 || righe[0].Codice != "A01" {
		t.Fatalf("righe = %+v", righe)
	}
}

func TestReadRitornoXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Articolo", "B1": "Q.ta offerta", "C1": "Prezzo unitario offerto",
		"A2": "A01", "B2": 10.5, "C2": 12,
		"A3": "B02", "B3": 3, "C3": 7.25,
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	righe, err := ReadRitorno(&buf, "offerta.xlsx", 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(righe) != 2 {
		t.Fatalf("want 2 righe, got %d", len(righe))
	}
	// header variants resolve through containment: Articolo, Q.ta, Prezzo
	if righe[0].Codice != "A01" || righe[0].Quantita == nil || *righe[0].Quantita != 10.5 {
		t.Fatalf("riga 0 = %+v", righe[0])
	}
	if righe[1].PrezzoUnitario == nil || *righe[1].PrezzoUnitario != 7.25 {
		t.Fatalf("riga 1 = %+v", righe[1])
	}
}

func TestReadRitornoUnsupported(t *testing.T) {
	if _, err := ReadRitorno(strings.NewReader(""), "x.pdf", 1); err == nil {
		t.Fatal("want error for unsupported extension")
	}
}

func TestResolveKey(t *testing.T) {
	rec := map[string]string{
		"Codice tariffa":    "A01",
		"Quantità offerta":  "10",
		"Prezzo  unitario ": "5",
	}
	if k := resolveKey(rec, wantCodice); k != "Codice tariffa" {
		t.Fatalf("codice -> %q", k)
	}
	if k := resolveKey(rec, wantQuantita); k != "Quantità offerta" {
		t.Fatalf("quantita -> %q", k)
	}
	if k := resolveKey(rec, wantPrezzo); k != "Prezzo  unitario " {
		t.Fatalf("prezzo -> %q", k)
	}
}
