package repo

import (
	"testing"

	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONRecord(t *testing.T) {
	rec, err := decodeJSONRecord([]byte(`{"name":"Drill","price":49.99,"stock":3,"active":true,"tags":["a"],"note":null}`))
	require.NoError(t, err)

	assert.Equal(t, models.S("Drill"), rec["name"])
	assert.Equal(t, models.N("49.99"), rec["price"])
	assert.Equal(t, models.N("3"), rec["stock"])
	assert.Equal(t, models.KindUnknown, rec["active"].Kind)
	assert.Equal(t, models.KindUnknown, rec["tags"].Kind)
	assert.Equal(t, models.KindUnknown, rec["note"].Kind)
}

func TestDecodeJSONRecord_Invalid(t *testing.T) {
	_, err := decodeJSONRecord([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestEncodeJSONRecord(t *testing.T) {
	doc, err := encodeJSONRecord(models.RawRecord{
		"name":  models.S("Drill"),
		"price": models.N("49.99"),
		"flag":  {Kind: models.KindUnknown, Text: "true"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Drill","price":49.99}`, string(doc))

	_, err = encodeJSONRecord(models.RawRecord{"price": models.N("not-a-number")})
	assert.Error(t, err)
}
