package access

// Expr is a composable boolean filter the storage layer compiles into a WHERE
// clause. Resolution only ever builds trees out of the node types below, so a
// predicate can be compared structurally in tests and compiled without
// reflection in the repositories.
type Expr interface {
	isExpr()
}

type (
	// And matches rows satisfying every child expression.
	And []Expr

	// Or matches rows satisfying at least one child expression.
	Or []Expr

	// Eq matches rows whose column equals the value.
	Eq struct {
		Col string
		Val interface{}
	}

	// ILike matches rows whose column contains the value, case-insensitively.
	// Val is the raw keyword; the compiler adds the wildcards.
	ILike struct {
		Col string
		Val string
	}

	// IsNull matches rows whose column is NULL.
	IsNull struct {
		Col string
	}

	// Sub is a correlated EXISTS subquery against the store's schema, with
	// `?` placeholders for Args. Used for the transitive ownership paths.
	Sub struct {
		SQL  string
		Args []interface{}
	}

	// Nothing matches no rows. Fail-closed resolutions produce it.
	Nothing struct{}
)

func (And) isExpr()     {}
func (Or) isExpr()      {}
func (Eq) isExpr()      {}
func (ILike) isExpr()   {}
func (IsNull) isExpr()  {}
func (Sub) isExpr()     {}
func (Nothing) isExpr() {}

// Conj AND-combines the given expressions, dropping nils. A nil result means
// no restriction at all (the admin identity predicate).
func Conj(exprs ...Expr) Expr {
	flat := make(And, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		flat = append(flat, e)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return flat
}

// MatchesNothing reports whether the expression is the fail-closed predicate.
func MatchesNothing(e Expr) bool {
	_, ok := e.(Nothing)
	return ok
}
