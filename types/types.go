package types

// Operator is the comparison used by a Predicate. Only pattern operators are
// needed by the list endpoints.
type Operator string

const (
	Like    Operator = "LIKE"
	NotLike Operator = "NOT LIKE"
)

// Predicate is one bound condition: column, operator and the single value
// bound to its placeholder.
type Predicate struct {
	Column   string
	Operator Operator
	Value    any
}

// Condition is either a single Predicate or an OR group of them.
type Condition struct {
	AnyOf []Predicate
}

func Where(p Predicate) Condition {
	return Condition{AnyOf: []Predicate{p}}
}

func AnyOf(p ...Predicate) Condition {
	return Condition{AnyOf: p}
}

type ListParams struct {
	Table   string
	OrderBy string
	Exclude []string
	Filters []Condition
}
