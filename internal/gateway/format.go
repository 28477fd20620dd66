package gateway

// In this file: serialization of successful results to their textual JSON
// form.  Documents go through the bson extended JSON codec so that ObjectIDs,
// dates and other BSON types render faithfully; plain Go values fall back to
// encoding/json.

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const jsonIndent = "  "

// FormatJSON renders v as deterministic, pretty-printed JSON.  bson.D values
// keep their field order; document sequences render as a JSON array in
// cursor order.
func FormatJSON(v any) (string, error) {
	switch t := v.(type) {
	case []bson.D:
		return formatDocs(t)
	case bson.D:
		b, err := bson.MarshalExtJSONIndent(t, false, false, "", jsonIndent)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		b, err := json.MarshalIndent(v, "", jsonIndent)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// formatDocs renders a document sequence as a JSON array.  The bson codec
// only marshals top-level documents, so elements are rendered one by one.
func formatDocs(docs []bson.D) (string, error) {
	if len(docs) == 0 {
		return "[]", nil
	}
	var sb strings.Builder
	sb.WriteString("[\n")
	for i, doc := range docs {
		b, err := bson.MarshalExtJSONIndent(doc, false, false, jsonIndent, jsonIndent)
		if err != nil {
			return "", err
		}
		sb.WriteString(jsonIndent)
		sb.Write(b)
		if i < len(docs)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// format wraps FormatJSON failures into the taxonomy.  Serialization of a
// fetched result failing is a gateway-side defect, not a caller error.
func format(op Operation, collection string, v any) (string, *Error) {
	s, err := FormatJSON(v)
	if err != nil {
		return "", reclassify(op, collection, err)
	}
	return s, nil
}
