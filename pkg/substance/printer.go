package substance

import (
	"fmt"
	"io"
	"strings"

	"github.com/framework-learner/penrose/internal/errors"
)

// String renders the program as Substance source, one statement per line.
func (p Program) String() string {
	var sb strings.Builder
	_ = Fprint(&sb, p)
	return sb.String()
}

// Fprint writes the Substance source of p to w.
func Fprint(w io.Writer, p Program) error {
	for i, s := range p.Statements {
		line, err := formatStmt(s)
		if err != nil {
			return errors.Wrapf(err, "statement %d", i)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatStmt(s Stmt) (string, error) {
	switch n := s.(type) {
	case *Declaration:
		if len(n.Args) == 0 {
			return n.Type + " " + n.Name, nil
		}
		args, err := formatArgs(n.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s := %s(%s)", n.Type, n.Name, n.Type, args), nil
	case *PredicateApplication:
		args, err := formatArgs(n.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", n.Predicate, args), nil
	default:
		return "", errors.AssertionFailedf("unsupported statement %T", s)
	}
}

func formatArgs(args []Expr) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		switch e := a.(type) {
		case *Identifier:
			parts = append(parts, e.Name)
		default:
			return "", errors.AssertionFailedf("unsupported expression %T", a)
		}
	}
	return strings.Join(parts, ", "), nil
}
