package search

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/rogerio-castellano/inventory-search/internal/repo"
	"github.com/shopspring/decimal"
)

// Recognized query parameters, in the order predicates are produced.
const (
	ParamCategory = "category"
	ParamName     = "name"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
)

// Record attributes the predicates compare against.
const (
	AttrCategory = "category"
	AttrName     = "name"
	AttrPrice    = "price"
)

type PredicateKind int

const (
	CategoryEquals PredicateKind = iota + 1
	NameContains
	PriceGTE
	PriceLTE
)

func (k PredicateKind) String() string {
	switch k {
	case CategoryEquals:
		return "CategoryEquals"
	case NameContains:
		return "NameContains"
	case PriceGTE:
		return "PriceGTE"
	case PriceLTE:
		return "PriceLTE"
	default:
		return fmt.Sprintf("PredicateKind(%d)", int(k))
	}
}

// Predicate is one filter constraint. Text is set for CategoryEquals and
// NameContains, Amount for the price bounds.
type Predicate struct {
	Kind   PredicateKind
	Text   string
	Amount decimal.Decimal
}

func (p Predicate) String() string {
	switch p.Kind {
	case PriceGTE, PriceLTE:
		return fmt.Sprintf("%s(%s)", p.Kind, p.Amount)
	default:
		return fmt.Sprintf("%s(%q)", p.Kind, p.Text)
	}
}

// ErrMalformedInput marks a query parameter that cannot be interpreted.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a price parameter that is not a decimal number
// or lies outside the supported numeric range.
type MalformedInputError struct {
	Param string
	Value string
	Err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// ParsePredicates turns raw query parameters into predicates, one per
// recognized key, in the order category, name, minPrice, maxPrice. Unknown
// keys are ignored. An empty result means no filtering.
func ParsePredicates(params map[string]string) ([]Predicate, error) {
	var preds []Predicate

	if v, ok := params[ParamCategory]; ok {
		preds = append(preds, Predicate{Kind: CategoryEquals, Text: v})
	}
	if v, ok := params[ParamName]; ok {
		preds = append(preds, Predicate{Kind: NameContains, Text: v})
	}
	if v, ok := params[ParamMinPrice]; ok {
		amount, err := parseAmount(ParamMinPrice, v)
		if err != nil {
			return nil, err
		}
		preds = append(preds, Predicate{Kind: PriceGTE, Amount: amount})
	}
	if v, ok := params[ParamMaxPrice]; ok {
		amount, err := parseAmount(ParamMaxPrice, v)
		if err != nil {
			return nil, err
		}
		preds = append(preds, Predicate{Kind: PriceLTE, Amount: amount})
	}

	return preds, nil
}

func parseAmount(param, v string) (decimal.Decimal, error) {
	d, err := models.ParseNumber(v)
	if err != nil {
		return decimal.Decimal{}, &MalformedInputError{Param: param, Value: v, Err: err}
	}
	return d, nil
}

// BuildFilter translates predicates into the store-agnostic conjunction every
// backend understands. Order is preserved.
func BuildFilter(preds []Predicate) repo.Filter {
	f := repo.Filter{Conditions: make([]repo.Condition, 0, len(preds))}
	for _, p := range preds {
		switch p.Kind {
		case CategoryEquals:
			f.Conditions = append(f.Conditions, repo.Condition{Attribute: AttrCategory, Op: repo.OpEquals, Text: p.Text})
		case NameContains:
			f.Conditions = append(f.Conditions, repo.Condition{Attribute: AttrName, Op: repo.OpContains, Text: p.Text})
		case PriceGTE:
			f.Conditions = append(f.Conditions, repo.Condition{Attribute: AttrPrice, Op: repo.OpGTE, Number: p.Amount})
		case PriceLTE:
			f.Conditions = append(f.Conditions, repo.Condition{Attribute: AttrPrice, Op: repo.OpLTE, Number: p.Amount})
		}
	}
	return f
}
