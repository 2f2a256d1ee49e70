package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"messygen/internal/table"
)

// fromHTML extracts the first <table> element from an HTML document.
//
// Headers come from <th> cells when present, otherwise from the first row.
// Each remaining <tr> becomes one record; rows with a different cell count
// than the header are skipped by FromRecords.
func fromHTML(data []byte) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("html input has no <table>")
	}

	var headers []string
	tbl.Find("th").Each(func(_ int, sel *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(sel.Text()))
	})

	var records [][]string
	tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return // header-only row
		}
		rec := make([]string, 0, cells.Length())
		cells.Each(func(_ int, sel *goquery.Selection) {
			rec = append(rec, strings.TrimSpace(sel.Text()))
		})
		records = append(records, rec)
	})

	// No <th> header: promote the first data row.
	if len(headers) == 0 {
		if len(records) == 0 {
			return nil, fmt.Errorf("html table has no rows")
		}
		headers = records[0]
		records = records[1:]
	}

	return FromRecords(headers, records)
}
