package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"messygen/internal/table"
)

// fromXLSX reads the first sheet that contains at least a header row. The
// first row supplies the headers; short rows are padded so ragged sheets
// still align.
func fromXLSX(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}

		headers := rows[0]
		records := make([][]string, 0, len(rows)-1)
		for _, rec := range rows[1:] {
			// excelize trims trailing empty cells; pad back to header width.
			for len(rec) < len(headers) {
				rec = append(rec, "")
			}
			records = append(records, rec)
		}
		return FromRecords(headers, records)
	}

	return nil, fmt.Errorf("xlsx input has no populated sheet")
}
