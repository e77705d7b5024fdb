package repo

import (
	"fmt"
	"strings"

	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/shopspring/decimal"
)

// Operator is a comparison a store evaluates server-side.
type Operator int

const (
	OpEquals Operator = iota + 1
	OpContains
	OpGTE
	OpLTE
)

func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "="
	case OpContains:
		return "contains"
	case OpGTE:
		return ">="
	case OpLTE:
		return "<="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Numeric reports whether the operator compares numbers.
func (o Operator) Numeric() bool { return o == OpGTE || o == OpLTE }

// Condition is one attribute comparison. Text is the operand of string
// operators, Number the operand of numeric ones.
type Condition struct {
	Attribute string
	Op        Operator
	Text      string
	Number    decimal.Decimal
}

// Operand renders the operand as text, the form every backend binds.
func (c Condition) Operand() string {
	if c.Op.Numeric() {
		return c.Number.String()
	}
	return c.Text
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Attribute, c.Op, c.Operand())
}

// Filter is an ordered conjunction of conditions.
type Filter struct {
	Conditions []Condition
}

func (f Filter) Empty() bool { return len(f.Conditions) == 0 }

func (f Filter) String() string {
	parts := make([]string, len(f.Conditions))
	for i, c := range f.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Match evaluates the filter against a raw record. A condition on an attribute
// of the wrong kind does not match.
func (f Filter) Match(rec models.RawRecord) bool {
	for _, c := range f.Conditions {
		if !c.match(rec) {
			return false
		}
	}
	return true
}

func (c Condition) match(rec models.RawRecord) bool {
	av, ok := rec[c.Attribute]
	if !ok {
		return false
	}

	switch c.Op {
	case OpEquals:
		return av.Kind == models.KindString && av.Text == c.Text
	case OpContains:
		return av.Kind == models.KindString && strings.Contains(av.Text, c.Text)
	case OpGTE, OpLTE:
		if av.Kind != models.KindNumber {
			return false
		}
		n, err := decimal.NewFromString(av.Text)
		if err != nil {
			return false
		}
		if c.Op == OpGTE {
			return n.GreaterThanOrEqual(c.Number)
		}
		return n.LessThanOrEqual(c.Number)
	default:
		return false
	}
}
