package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"confronto-service/internal/confronto/model"
)

// ReadRitorno picks a parser by extension and maps the sheet onto ritorno
// rows (codice + quantita + prezzo + importo). headerRow is 1-based.
func ReadRitorno(r io.Reader, filename string, headerRow int) ([]model.RigaRitorno, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		maps []map[string]string
		err  error
	)
	switch ext {
	case ".xlsx":
		maps, err = readXLSX(r, headerRow)
	case ".xls":
		maps, err = readXLS(r, headerRow)
	case ".csv":
		maps, err = readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return nil, err
	}
	return mapsToRighe(maps), nil
}

// pickHeader takes the header row, substituting Column N for blanks.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts AoA into []map by header, skipping fully empty rows.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // first row after the header
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
		}
		empty := true
		for _, v := range m {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

func normalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
