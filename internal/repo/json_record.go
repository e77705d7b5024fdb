package repo

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// decodeJSONRecord reads a JSON object into a raw record. Numbers keep their
// literal text; values that are neither strings nor numbers are tagged
// KindUnknown and left to normalization to drop.
func decodeJSONRecord(data []byte) (models.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return fromJSONMap(doc), nil
}

func fromJSONMap(doc map[string]any) models.RawRecord {
	rec := make(models.RawRecord, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case string:
			rec[k] = models.S(t)
		case json.Number:
			rec[k] = models.N(t.String())
		default:
			rec[k] = models.AttributeValue{Kind: models.KindUnknown, Text: fmt.Sprint(t)}
		}
	}
	return rec
}

// encodeJSONRecord renders a raw record as a JSON object with numbers as
// number literals. Attributes of unknown kind are not written.
func encodeJSONRecord(rec models.RawRecord) ([]byte, error) {
	doc := make(map[string]any, len(rec))
	for k, av := range rec {
		switch av.Kind {
		case models.KindString:
			doc[k] = av.Text
		case models.KindNumber:
			doc[k] = json.Number(av.Text)
		}
	}
	return json.Marshal(doc)
}
