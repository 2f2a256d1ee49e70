package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"messygen/internal/table"
)

// fromCSV parses CSV bytes into a typed table. The first record is the
// header. Records with a mismatched field count are skipped; quoting is
// lenient.
func fromCSV(data []byte) (*table.Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty csv input")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // validated manually against the header
	r.LazyQuotes = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	records := make([][]string, 0, 1024)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Best-effort: skip unreadable records.
			continue
		}
		if len(rec) != len(headers) {
			continue
		}
		records = append(records, append([]string(nil), rec...))
	}

	return FromRecords(headers, records)
}
