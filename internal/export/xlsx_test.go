package export

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	excelize "github.com/xuri/excelize/v2"

	"confronto-service/internal/confronto/model"
	"confronto-service/internal/confronto/service"
)

func fptr(v float64) *float64 { return &v }
func intp(n int) *int         { return &n }

func TestWriteXLSX(t *testing.T) {
	off := model.NewOfferteMap()
	off.Set("ACME (Round 1)", model.Offerta{PrezzoUnitario: fptr(90)})
	p := model.ConfrontoPayload{
		Voci: []model.Voce{{
			Codice:                 "A01",
			Descrizione:            "Scavo",
			UM:                     "m3",
			PrezzoUnitarioProgetto: fptr(100),
			Offerte:                off,
		}},
		Imprese: []model.ImpresaView{{Nome: "ACME", RoundNumber: intp(1)}},
	}
	cmp := service.New(zerolog.Nop()).Run(p, model.Filter{})

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, cmp); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	a1, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatalf("A1: %v", err)
	}
	if a1 != "ID" {
		t.Fatalf("A1 = %q", a1)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want header + 1 data row, got %d", len(rows))
	}

	// the contractor's unit price lands under its contract column
	header := rows[0]
	data := rows[1]
	col := -1
	for i, h := range header {
		if h == "ACME - Round 1 - Prezzo unitario" {
			col = i
		}
	}
	if col < 0 {
		t.Fatalf("pivot column header missing: %v", header)
	}
	if col >= len(data) || data[col] != "90" {
		t.Fatalf("pivot cell = %q", cell(data, col))
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
