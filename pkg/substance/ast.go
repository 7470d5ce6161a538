// Package substance defines the abstract syntax of generated Substance
// programs and renders it back to source text.
package substance

// Stmt is a top-level Substance statement.
type Stmt interface {
	stmtNode()
}

// Expr is an argument expression. Only identifier references are
// generated; nested function-call arguments are not part of the subset.
type Expr interface {
	exprNode()
}

// Program is an ordered statement sequence in generation order.
type Program struct {
	Statements []Stmt
}

// Declaration binds a fresh identifier to a type.
type Declaration struct {
	Type string
	Name string
	// Args are constructor arguments; always empty for arity 0 types.
	Args []Expr
}

func (*Declaration) stmtNode() {}

// PredicateApplication applies a named predicate to its arguments.
type PredicateApplication struct {
	Predicate string
	Args      []Expr
}

func (*PredicateApplication) stmtNode() {}

// Identifier references a declared name.
type Identifier struct {
	Name string
}

func (*Identifier) exprNode() {}

// Len returns the number of statements.
func (p Program) Len() int { return len(p.Statements) }

// Declarations returns the declaration statements in order.
func (p Program) Declarations() []*Declaration {
	var out []*Declaration
	for _, s := range p.Statements {
		if d, ok := s.(*Declaration); ok {
			out = append(out, d)
		}
	}
	return out
}

// Applications returns the predicate applications in order.
func (p Program) Applications() []*PredicateApplication {
	var out []*PredicateApplication
	for _, s := range p.Statements {
		if a, ok := s.(*PredicateApplication); ok {
			out = append(out, a)
		}
	}
	return out
}
