package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterConditions(t *testing.T) {
	query, args, err := filterConditions(Filter{Conditions: []Condition{
		{Attribute: "category", Op: OpEquals, Text: "Tools"},
		{Attribute: "name", Op: OpContains, Text: "Drill"},
		priceCond(OpGTE, "10"),
		priceCond(OpLTE, "99.5"),
	}})
	require.NoError(t, err)

	want := " AND jsonb_typeof(attributes->'category') = 'string' AND attributes->>'category' = $1" +
		" AND jsonb_typeof(attributes->'name') = 'string' AND strpos(attributes->>'name', $2) > 0" +
		" AND (CASE WHEN jsonb_typeof(attributes->'price') = 'number' THEN (attributes->>'price')::numeric END) >= $3::numeric" +
		" AND (CASE WHEN jsonb_typeof(attributes->'price') = 'number' THEN (attributes->>'price')::numeric END) <= $4::numeric"
	assert.Equal(t, want, query)
	assert.Equal(t, []any{"Tools", "Drill", "10", "99.5"}, args)
}

func TestFilterConditions_QuotesAttributeNames(t *testing.T) {
	query, _, err := filterConditions(Filter{Conditions: []Condition{
		{Attribute: "o'brien", Op: OpEquals, Text: "x"},
	}})
	require.NoError(t, err)
	assert.Contains(t, query, "attributes->>'o''brien'")
}

func TestFilterConditions_UnsupportedOperator(t *testing.T) {
	_, _, err := filterConditions(Filter{Conditions: []Condition{{Attribute: "x", Op: Operator(99)}}})
	assert.Error(t, err)
}

func TestNewPostgresProductStore_SanitizesTable(t *testing.T) {
	s := NewPostgresProductStore(nil, "ProductInventory", 0)
	assert.Equal(t, `"ProductInventory"`, s.table)
	assert.Equal(t, 3*time.Second, s.timeout)
}
