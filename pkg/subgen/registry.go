package subgen

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// registry mints fresh names and remembers which identifiers were declared
// with which type in the current program.
//
// Counters are keyed by the one-character prefix, not by the type, so two
// types starting with the same letter (Real, Rectangle) share a counter and
// still never mint the same name.
type registry struct {
	counters map[string]int
	declared map[string][]string
}

func newRegistry() *registry {
	r := &registry{}
	r.reset()
	return r
}

func (r *registry) reset() {
	r.counters = make(map[string]int)
	r.declared = make(map[string][]string)
}

func namePrefix(typeName string) string {
	first, _ := utf8.DecodeRuneInString(typeName)
	if first == utf8.RuneError {
		return "_"
	}
	return string(unicode.ToLower(first))
}

// freshName mints the next name for typeName (p, p1, p2, ...) and registers
// it as declared with that type.
func (r *registry) freshName(typeName string) string {
	prefix := namePrefix(typeName)
	name := prefix
	if k, ok := r.counters[prefix]; ok {
		name = prefix + strconv.Itoa(k)
		r.counters[prefix] = k + 1
	} else {
		r.counters[prefix] = 1
	}
	r.declared[typeName] = append(r.declared[typeName], name)
	return name
}

// declaredAs returns the identifiers declared with exactly typeName, in
// declaration order.
func (r *registry) declaredAs(typeName string) []string {
	return r.declared[typeName]
}
