package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads CSV with headerRow (1-based), auto-detecting the encoding
// and converting to UTF-8. UTF-8 and Windows-1252 (the common Italian office
// export) are handled; the delimiter may be ',' or the it-IT ';'.
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1252", "cp1252", "iso-8859-1", "iso-8859-15":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	default:
		// assume UTF-8
	}

	// it-IT CSVs use ';' because ',' is the decimal mark
	sep := ','
	if i := bytes.IndexByte(peek, '\n'); i > 0 {
		line := string(peek[:i])
		if strings.Count(line, ";") > strings.Count(line, ",") {
			sep = ';'
		}
	} else if strings.Count(string(peek), ";") > strings.Count(string(peek), ",") {
		sep = ';'
	}

	cr := csv.NewReader(dec)
	cr.Comma = sep
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}
