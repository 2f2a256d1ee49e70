package loader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want format
	}{
		{"csv", "a,b\n1,2\n", formatCSV},
		{"json array", `[{"a":1}]`, formatJSON},
		{"json object", `{"rows":[]}`, formatJSON},
		{"json with leading space", "  \n[{}]", formatJSON},
		{"html", "<html><table></table></html>", formatHTML},
		{"xlsx magic", "PK\x03\x04rest", formatXLSX},
		{"empty", "", formatUnknown},
		{"blank", "   \n\t", formatUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sniffFormat([]byte(tt.in)); got != tt.want {
				t.Fatalf("sniffFormat = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	in := []string{"\uFEFFFirst Name", " Née ", "amount", "amount", "", "amount"}
	want := []string{"first_name", "nee", "amount", "amount_2", "column_5", "amount_3"}

	if got := normalizeHeaders(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeHeaders = %v, want %v", got, want)
	}
}

func TestFromRecordsColumnTyping(t *testing.T) {
	t.Parallel()

	headers := []string{"id", "price", "flag", "day", "at", "note", "mixed"}
	records := [][]string{
		{"1", "9.5", "yes", "2021-04-01", "2021-04-01 10:00:00", "hello", "1"},
		{"2", "10", "no", "02.05.2021", "2021-05-02T11:30:00", "", "x"},
		{"", "-3.25", "true", "2021-06-03", "2021-06-03 00:00:01", "world", "2"},
	}

	tbl, err := FromRecords(headers, records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}

	first := tbl.Rows[0]
	if v, ok := first["id"].(int64); !ok || v != 1 {
		t.Fatalf("id = %v (%T), want int64 1", first["id"], first["id"])
	}
	if v, ok := first["price"].(float64); !ok || v != 9.5 {
		t.Fatalf("price = %v (%T), want float64 9.5", first["price"], first["price"])
	}
	if v, ok := first["flag"].(bool); !ok || v != true {
		t.Fatalf("flag = %v (%T), want bool true", first["flag"], first["flag"])
	}
	if v, ok := first["day"].(time.Time); !ok || !v.Equal(time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day = %v (%T), want 2021-04-01", first["day"], first["day"])
	}
	if v, ok := first["at"].(time.Time); !ok || v.Hour() != 10 {
		t.Fatalf("at = %v (%T), want timestamp at 10:00", first["at"], first["at"])
	}
	if _, ok := first["note"].(string); !ok {
		t.Fatalf("note = %v (%T), want string", first["note"], first["note"])
	}
	// One non-numeric cell keeps the whole column text.
	if v, ok := first["mixed"].(string); !ok || v != "1" {
		t.Fatalf("mixed = %v (%T), want string \"1\"", first["mixed"], first["mixed"])
	}

	if tbl.Rows[1]["note"] != nil {
		t.Fatalf("empty cell = %v, want nil", tbl.Rows[1]["note"])
	}
	if tbl.Rows[2]["id"] != nil {
		t.Fatalf("empty id cell = %v, want nil", tbl.Rows[2]["id"])
	}
}

func TestFromRecordsSkipsRaggedRecords(t *testing.T) {
	t.Parallel()

	tbl, err := FromRecords([]string{"a", "b"}, [][]string{
		{"1", "2"},
		{"only-one"},
		{"3", "4", "5"},
		{"6", "7"},
	})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
}

func TestFromRecordsNoColumns(t *testing.T) {
	t.Parallel()

	if _, err := FromRecords(nil, nil); err == nil {
		t.Fatal("expected error for empty header")
	}
}

func TestInferColumnKindPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   cellKind
	}{
		{"ints beat bools", []string{"1", "0", "1"}, cellInt},
		{"bool words", []string{"yes", "No", "TRUE"}, cellBool},
		{"floats", []string{"1.5", "2", "-0.25"}, cellFloat},
		{"dates", []string{"2020-01-01", "15.03.2020"}, cellDate},
		{"timestamps", []string{"2020-01-01 10:00:00", "2020-01-01T10:00:00"}, cellTimestamp},
		{"text wins on mixture", []string{"1", "abc"}, cellText},
		{"all empty stays text", []string{"", "  "}, cellText},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rows := make([][]string, len(tt.values))
			for i, v := range tt.values {
				rows[i] = []string{v}
			}
			if got := inferColumnKind(rows, 0); got != tt.want {
				t.Fatalf("kind = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromCSVSkipsBadRows(t *testing.T) {
	t.Parallel()

	data := []byte("name,age\nAda,36\nshort-row\nGrace,45,extra\nEdsger,72\n")
	tbl, err := fromCSV(data)
	if err != nil {
		t.Fatalf("fromCSV: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (bad rows skipped)", len(tbl.Rows))
	}
	if tbl.Rows[0]["name"] != "Ada" || tbl.Rows[0]["age"] != int64(36) {
		t.Fatalf("row 0 = %v, want Ada/36", tbl.Rows[0])
	}
}

func TestFromCSVEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := fromCSV([]byte("  \n ")); err == nil {
		t.Fatal("expected error for empty csv")
	}
}

func TestFromJSONRootArray(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"name": "Ada", "age": 36, "tags": ["a", "b"]},
		{"name": "Grace", "age": 45, "tags": []}
	]`)

	tbl, err := fromJSON(data)
	if err != nil {
		t.Fatalf("fromJSON: %v", err)
	}
	if want := []string{"age", "name", "tags"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.Rows[0]["age"] != int64(36) {
		t.Fatalf("age = %v (%T), want int64 36", tbl.Rows[0]["age"], tbl.Rows[0]["age"])
	}
	if tbl.Rows[0]["tags"] != "a,b" {
		t.Fatalf("tags = %v, want joined scalars", tbl.Rows[0]["tags"])
	}
	if tbl.Rows[1]["tags"] != nil {
		t.Fatalf("empty array = %v, want nil cell", tbl.Rows[1]["tags"])
	}
}

func TestFromJSONEnvelope(t *testing.T) {
	t.Parallel()

	data := []byte(`{"count": 2, "items": [{"id": 1}, {"id": 2}]}`)
	tbl, err := fromJSON(data)
	if err != nil {
		t.Fatalf("fromJSON: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1]["id"] != int64(2) {
		t.Fatalf("rows = %v, want two id records", tbl.Rows)
	}
}

func TestFromJSONScalarRootFails(t *testing.T) {
	t.Parallel()

	if _, err := fromJSON([]byte(`42`)); err == nil {
		t.Fatal("expected error for scalar json root")
	}
}

func TestFromHTMLWithHeaderCells(t *testing.T) {
	t.Parallel()

	data := []byte(`<html><body><table>
		<tr><th>Name</th><th>Score</th></tr>
		<tr><td>Ada</td><td>10</td></tr>
		<tr><td>Grace</td><td>12</td></tr>
	</table></body></html>`)

	tbl, err := fromHTML(data)
	if err != nil {
		t.Fatalf("fromHTML: %v", err)
	}
	if want := []string{"name", "score"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1]["score"] != int64(12) {
		t.Fatalf("rows = %v, want 2 typed records", tbl.Rows)
	}
}

func TestFromHTMLPromotesFirstRow(t *testing.T) {
	t.Parallel()

	data := []byte(`<table>
		<tr><td>city</td><td>pop</td></tr>
		<tr><td>Oslo</td><td>700000</td></tr>
	</table>`)

	tbl, err := fromHTML(data)
	if err != nil {
		t.Fatalf("fromHTML: %v", err)
	}
	if want := []string{"city", "pop"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0]["pop"] != int64(700000) {
		t.Fatalf("rows = %v, want one Oslo record", tbl.Rows)
	}
}

func TestFromHTMLNoTable(t *testing.T) {
	t.Parallel()

	if _, err := fromHTML([]byte("<html><p>nope</p></html>")); err == nil {
		t.Fatal("expected error for table-less html")
	}
}

func TestFromXLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"Name", "Score"},
		{"Ada", 10},
		{"Grace", 12},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var data []byte
	{
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("write xlsx: %v", err)
		}
		data = buf.Bytes()
	}

	tbl, err := fromXLSX(data)
	if err != nil {
		t.Fatalf("fromXLSX: %v", err)
	}
	if want := []string{"name", "score"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0]["score"] != int64(10) {
		t.Fatalf("rows = %v, want typed xlsx records", tbl.Rows)
	}
}

func TestLoadDispatchesBySniff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt") // extension deliberately useless
	content := "id,name\n1,Ada\n2,Grace\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0]["id"] != int64(1) {
		t.Fatalf("rows = %v, want csv records", tbl.Rows)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
