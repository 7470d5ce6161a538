package subgen

import "github.com/framework-learner/penrose/pkg/domain"

// typePool holds the schema views the generator draws from. Names are in
// sorted order so that draws do not depend on map iteration.
type typePool struct {
	d          *domain.Domain
	types      []string
	predicates []string
}

func newTypePool(d *domain.Domain) typePool {
	return typePool{
		d:          d,
		types:      d.TypeNames(),
		predicates: d.PredicateNames(),
	}
}

// relatedTypes is the candidate set of a top-level declaration of t under
// the General option: t, its ancestors and its descendants.
func (p typePool) relatedTypes(t string) []string {
	out := []string{t}
	out = append(out, p.d.Ancestors(t)...)
	return append(out, p.d.Descendants(t)...)
}

// argumentTypes is the set of declared types an argument of type t may be
// given: exactly t for Concrete, t and its descendants for General. It is
// empty when the schema never declares t.
func (p typePool) argumentTypes(t string, opt TypeOption) []string {
	if !p.d.HasType(t) {
		return nil
	}
	if opt == TypeConcrete {
		return []string{t}
	}
	return append([]string{t}, p.d.Descendants(t)...)
}

// compatibleNames lists the identifiers already declared with a type an
// argument of type t accepts.
func (p typePool) compatibleNames(names *registry, t string, opt TypeOption) []string {
	if opt == TypeConcrete {
		return names.declaredAs(t)
	}
	var out []string
	out = append(out, names.declaredAs(t)...)
	for _, sub := range p.d.Descendants(t) {
		out = append(out, names.declaredAs(sub)...)
	}
	return out
}
