package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"messygen/internal/table"
)

// fromJSON parses JSON bytes into a typed table.
//
// Accepted shapes:
//   - A root array of objects: one record per element.
//   - An envelope object: the first array-of-objects field (alphabetically)
//     is the record list.
//   - A single object: one record.
//
// Column order is the sorted union of keys, since JSON object key order is
// not preserved by decoding. Scalar values are rendered to strings and
// re-typed by the shared column inference, so a JSON file and the equivalent
// CSV produce the same table. Nested arrays of scalars are joined with ",".
func fromJSON(data []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	objects, err := recordObjects(root)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("json input has no records")
	}

	keySet := map[string]struct{}{}
	for _, obj := range objects {
		for k := range obj {
			keySet[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	records := make([][]string, 0, len(objects))
	for _, obj := range objects {
		rec := make([]string, len(headers))
		for i, k := range headers {
			rec[i] = renderScalar(obj[k])
		}
		records = append(records, rec)
	}

	return FromRecords(headers, records)
}

func recordObjects(root any) ([]map[string]any, error) {
	switch v := root.(type) {
	case []any:
		return objectsFromArray(v), nil

	case map[string]any:
		// Envelope pattern: use the first array-of-objects field.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := v[k].([]any); ok {
				if objs := objectsFromArray(arr); len(objs) > 0 {
					return objs, nil
				}
			}
		}
		// No embedded record array: treat the object itself as one record.
		return []map[string]any{v}, nil

	default:
		return nil, fmt.Errorf("json root must be an object or array")
	}
}

func objectsFromArray(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// renderScalar flattens a decoded JSON value to its string form. Arrays of
// scalars are joined; nested objects are dropped (empty cell).
func renderScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(x))
		for _, el := range x {
			if _, nested := el.(map[string]any); nested {
				continue
			}
			if _, nested := el.([]any); nested {
				continue
			}
			parts = append(parts, renderScalar(el))
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}
