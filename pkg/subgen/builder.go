package subgen

import "github.com/framework-learner/penrose/pkg/substance"

// builder accumulates the statements of the program under construction.
// Statements are only ever appended.
type builder struct {
	stmts []substance.Stmt
}

func (b *builder) append(s substance.Stmt) {
	b.stmts = append(b.stmts, s)
}

func (b *builder) len() int { return len(b.stmts) }

// program returns a snapshot that later appends do not affect.
func (b *builder) program() substance.Program {
	out := make([]substance.Stmt, len(b.stmts))
	copy(out, b.stmts)
	return substance.Program{Statements: out}
}

func (b *builder) reset() {
	b.stmts = nil
}
