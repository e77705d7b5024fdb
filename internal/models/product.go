package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the primitive type of a stored attribute.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "S"
	case KindNumber:
		return "N"
	default:
		return "?"
	}
}

// AttributeValue is an attribute as a record store hands it back: a kind tag
// plus its textual payload. Numbers keep their exact decimal text.
type AttributeValue struct {
	Kind Kind
	Text string
}

// S builds a string attribute.
func S(v string) AttributeValue { return AttributeValue{Kind: KindString, Text: v} }

// N builds a numeric attribute from its decimal text.
func N(v string) AttributeValue { return AttributeValue{Kind: KindNumber, Text: v} }

// RawRecord is a product record before normalization.
type RawRecord map[string]AttributeValue

// Value is a normalized attribute: either a plain string or a plain number.
type Value struct {
	kind Kind
	str  string
	num  float64
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v holds a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v holds a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return nil, fmt.Errorf("models: cannot marshal value of unknown kind")
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	default:
		return fmt.Errorf("models: unsupported JSON value %s", string(data))
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Product is a normalized product record. No schema is enforced; whatever
// attributes the store returned survive as long as they are strings or numbers.
type Product map[string]Value

// SearchResult is the body of a successful search. Count always equals
// len(Products).
type SearchResult struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

// NewSearchResult wraps products, keeping Count in step and never emitting a
// null products array.
func NewSearchResult(products []Product) SearchResult {
	if products == nil {
		products = []Product{}
	}
	return SearchResult{Count: len(products), Products: products}
}
