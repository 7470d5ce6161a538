// Package domain models the Domain Schema a generated Substance program
// must conform to: declared types, the subtype relation between them and
// the declared predicates.
package domain

import (
	"sort"

	"github.com/framework-learner/penrose/internal/errors"
)

var (
	// ErrMalformedSchema is returned when a schema source cannot be parsed
	// or is structurally invalid.
	ErrMalformedSchema = errors.New("malformed domain schema")

	// ErrUnknownType is returned when a subtype edge or predicate argument
	// refers to a type the schema never declares.
	ErrUnknownType = errors.New("unknown type")
)

// PropType is the type of propositions. Predicates whose arguments are all
// propositions are binary predicates.
const PropType = "Prop"

// TypeConstructor describes a declared type. Only arity 0 constructors are
// part of the language subset generated here.
type TypeConstructor struct {
	Name   string
	Params []string
}

// Arity returns the number of constructor parameters.
func (t TypeConstructor) Arity() int { return len(t.Params) }

// SubtypeEdge is a (child, parent) pair of the subtyping DAG.
type SubtypeEdge struct {
	Sub   string
	Super string
}

// PredicateKind is the arity class of a predicate.
type PredicateKind int

const (
	KindUnary PredicateKind = iota
	KindBinary
)

func (k PredicateKind) String() string {
	switch k {
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Predicate is the closed set of predicate variants: UnaryPredicate and
// BinaryPredicate. The unexported method keeps other packages from adding
// variants the generator does not know how to dispatch.
type Predicate interface {
	PredicateName() string
	Kind() PredicateKind
	predicate()
}

// UnaryPredicate carries one declared type per argument position.
type UnaryPredicate struct {
	Name     string
	ArgTypes []string
}

func (p UnaryPredicate) PredicateName() string { return p.Name }
func (p UnaryPredicate) Kind() PredicateKind  { return KindUnary }
func (UnaryPredicate) predicate()              {}

// BinaryPredicate ranges over propositions and carries no argument
// metadata.
type BinaryPredicate struct {
	Name string
}

func (p BinaryPredicate) PredicateName() string { return p.Name }
func (p BinaryPredicate) Kind() PredicateKind  { return KindBinary }
func (BinaryPredicate) predicate()              {}

// Domain is the read-only schema consumed by the generator.
type Domain struct {
	Types      map[string]TypeConstructor
	Subtypes   []SubtypeEdge
	Predicates map[string]Predicate
}

// New returns an empty domain.
func New() *Domain {
	return &Domain{
		Types:      make(map[string]TypeConstructor),
		Predicates: make(map[string]Predicate),
	}
}

// AddType declares an arity 0 type.
func (d *Domain) AddType(name string) *Domain {
	d.Types[name] = TypeConstructor{Name: name}
	return d
}

// AddSubtype records sub <: super.
func (d *Domain) AddSubtype(sub, super string) *Domain {
	d.Subtypes = append(d.Subtypes, SubtypeEdge{Sub: sub, Super: super})
	return d
}

// AddPredicate declares a predicate, replacing any previous one with the
// same name.
func (d *Domain) AddPredicate(p Predicate) *Domain {
	d.Predicates[p.PredicateName()] = p
	return d
}

// HasType reports whether name is a declared type.
func (d *Domain) HasType(name string) bool {
	_, ok := d.Types[name]
	return ok
}

// TypeNames returns the declared type names in sorted order.
func (d *Domain) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for name := range d.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PredicateNames returns the declared predicate names in sorted order.
func (d *Domain) PredicateNames() []string {
	names := make([]string, 0, len(d.Predicates))
	for name := range d.Predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Predicate looks up a predicate by name.
func (d *Domain) Predicate(name string) (Predicate, bool) {
	p, ok := d.Predicates[name]
	return p, ok
}

// Ancestors returns every strict supertype of t, sorted.
func (d *Domain) Ancestors(t string) []string {
	return d.reach(t, func(e SubtypeEdge) (string, string) { return e.Sub, e.Super })
}

// Descendants returns every strict subtype of t, sorted.
func (d *Domain) Descendants(t string) []string {
	return d.reach(t, func(e SubtypeEdge) (string, string) { return e.Super, e.Sub })
}

// IsSubtype reports whether sub <: super, reflexively.
func (d *Domain) IsSubtype(sub, super string) bool {
	if sub == super {
		return true
	}
	for _, a := range d.Ancestors(sub) {
		if a == super {
			return true
		}
	}
	return false
}

func (d *Domain) reach(start string, dir func(SubtypeEdge) (from, to string)) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.Subtypes {
			from, to := dir(e)
			if from != cur || seen[to] {
				continue
			}
			seen[to] = true
			out = append(out, to)
			queue = append(queue, to)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks the schema is usable by the generator.
func (d *Domain) Validate() error {
	for name, tc := range d.Types {
		if name == "" || tc.Name != name {
			return errors.Wrapf(ErrMalformedSchema, "type entry %q has mismatched name %q", name, tc.Name)
		}
		if tc.Arity() != 0 {
			return errors.WithHint(
				errors.Wrapf(ErrMalformedSchema, "type %s has %d constructor parameters", name, tc.Arity()),
				"only arity 0 type constructors are supported")
		}
	}
	for _, e := range d.Subtypes {
		if !d.HasType(e.Sub) {
			return errors.Wrapf(ErrUnknownType, "subtype edge %s <: %s: %s", e.Sub, e.Super, e.Sub)
		}
		if !d.HasType(e.Super) {
			return errors.Wrapf(ErrUnknownType, "subtype edge %s <: %s: %s", e.Sub, e.Super, e.Super)
		}
		if e.Sub == e.Super {
			return errors.Wrapf(ErrMalformedSchema, "type %s is declared a subtype of itself", e.Sub)
		}
	}
	for _, e := range d.Subtypes {
		for _, a := range d.Ancestors(e.Super) {
			if a == e.Sub {
				return errors.Wrapf(ErrMalformedSchema, "subtype cycle through %s and %s", e.Sub, e.Super)
			}
		}
	}
	for _, name := range d.PredicateNames() {
		switch p := d.Predicates[name].(type) {
		case UnaryPredicate:
			for i, at := range p.ArgTypes {
				if !d.HasType(at) {
					return errors.WithHintf(
						errors.Wrapf(ErrUnknownType, "predicate %s argument %d: %s", name, i, at),
						"declare it with `type %s`", at)
				}
			}
		case BinaryPredicate:
		default:
			return errors.Wrapf(ErrMalformedSchema, "predicate %s has unsupported type %T", name, p)
		}
	}
	return nil
}
