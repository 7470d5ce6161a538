package domain

import (
	"bufio"
	"strings"

	"github.com/framework-learner/penrose/internal/errors"
)

// Declarations of the text format the generator has no use for. They are
// accepted and skipped so real domain files load unchanged.
var skippedKeywords = []string{"function", "constructor", "notation", "value"}

// ParseDSL parses the line-oriented domain text format:
//
//	-- comment
//	type Set
//	type Point()
//	Set <: Shape
//	predicate IsSubset(Set s1, Set s2)
//	predicate Not(Prop p)
//
// A predicate whose arguments are all Prop is a BinaryPredicate.
func ParseDSL(src string) (*Domain, error) {
	d := New()
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		if err := parseLine(d, line); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan domain source")
	}
	return d, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "--"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parseLine(d *Domain, line string) error {
	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch keyword {
	case "type":
		name, params, err := splitCall(rest)
		if err != nil {
			return err
		}
		if d.HasType(name) {
			return errors.Wrapf(ErrMalformedSchema, "type %s declared twice", name)
		}
		d.Types[name] = TypeConstructor{Name: name, Params: params}
		return nil
	case "predicate":
		name, params, err := splitCall(rest)
		if err != nil {
			return err
		}
		if _, dup := d.Predicate(name); dup {
			return errors.Wrapf(ErrMalformedSchema, "predicate %s declared twice", name)
		}
		d.AddPredicate(predicateFromParams(name, params))
		return nil
	}

	for _, kw := range skippedKeywords {
		if keyword == kw {
			return nil
		}
	}

	if sub, super, ok := strings.Cut(line, "<:"); ok {
		sub, super = strings.TrimSpace(sub), strings.TrimSpace(super)
		if !isIdent(sub) || !isIdent(super) {
			return errors.Wrapf(ErrMalformedSchema, "malformed subtype declaration %q", line)
		}
		d.AddSubtype(sub, super)
		return nil
	}

	return errors.Wrapf(ErrMalformedSchema, "unrecognized declaration %q", line)
}

// splitCall splits `Name` or `Name(a, b)` into the name and the trimmed
// parameter list.
func splitCall(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !isIdent(s) {
			return "", nil, errors.Wrapf(ErrMalformedSchema, "malformed name %q", s)
		}
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, errors.Wrapf(ErrMalformedSchema, "unterminated parameter list in %q", s)
	}
	name := strings.TrimSpace(s[:open])
	if !isIdent(name) {
		return "", nil, errors.Wrapf(ErrMalformedSchema, "malformed name %q", name)
	}
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return name, nil, nil
	}
	var params []string
	for _, p := range strings.Split(inner, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			return "", nil, errors.Wrapf(ErrMalformedSchema, "empty parameter in %q", s)
		}
		params = append(params, p)
	}
	return name, params, nil
}

// predicateFromParams turns `T a` parameters into argument types.
func predicateFromParams(name string, params []string) Predicate {
	argTypes := make([]string, 0, len(params))
	allProps := len(params) > 0
	for _, p := range params {
		typ := strings.Fields(p)[0]
		argTypes = append(argTypes, typ)
		if typ != PropType {
			allProps = false
		}
	}
	if allProps {
		return BinaryPredicate{Name: name}
	}
	return UnaryPredicate{Name: name, ArgTypes: argTypes}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
