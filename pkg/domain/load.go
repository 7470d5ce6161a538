package domain

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/framework-learner/penrose/internal/errors"
)

// schemaFile is the structured (YAML / TOML) representation of a domain.
type schemaFile struct {
	Types      []string         `yaml:"types" toml:"types"`
	Subtypes   []subtypeEntry   `yaml:"subtypes" toml:"subtypes"`
	Predicates []predicateEntry `yaml:"predicates" toml:"predicates"`
}

type subtypeEntry struct {
	Sub   string `yaml:"sub" toml:"sub"`
	Super string `yaml:"super" toml:"super"`
}

type predicateEntry struct {
	Name string   `yaml:"name" toml:"name"`
	Args []string `yaml:"args" toml:"args"`
	// Kind is "unary" (default) or "binary".
	Kind string `yaml:"kind" toml:"kind"`
}

// Load reads a domain from path, choosing the format by file extension:
// .dsl / .domain for the text format, .yaml / .yml, or .toml.
func Load(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read domain file %s", path)
	}

	var d *Domain
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dsl", ".domain":
		d, err = ParseDSL(string(data))
	case ".yaml", ".yml":
		d, err = LoadYAML(data)
	case ".toml":
		d, err = LoadTOML(data)
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformedSchema, "unsupported domain file extension %q", ext),
			"use .dsl, .yaml, .yml or .toml")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load domain %s", path)
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid domain %s", path)
	}
	return d, nil
}

// LoadYAML decodes a YAML domain schema.
func LoadYAML(data []byte) (*Domain, error) {
	var f schemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode YAML domain"), ErrMalformedSchema)
	}
	return f.toDomain()
}

// LoadTOML decodes a TOML domain schema.
func LoadTOML(data []byte) (*Domain, error) {
	var f schemaFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode TOML domain"), ErrMalformedSchema)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrMalformedSchema, "unknown TOML keys: %v", undecoded)
	}
	return f.toDomain()
}

func (f schemaFile) toDomain() (*Domain, error) {
	d := New()
	for _, t := range f.Types {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, errors.Wrap(ErrMalformedSchema, "empty type name")
		}
		if d.HasType(t) {
			return nil, errors.Wrapf(ErrMalformedSchema, "type %s declared twice", t)
		}
		d.AddType(t)
	}
	for _, e := range f.Subtypes {
		d.AddSubtype(strings.TrimSpace(e.Sub), strings.TrimSpace(e.Super))
	}
	for _, p := range f.Predicates {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, errors.Wrap(ErrMalformedSchema, "predicate without a name")
		}
		if _, dup := d.Predicate(name); dup {
			return nil, errors.Wrapf(ErrMalformedSchema, "predicate %s declared twice", name)
		}
		switch strings.ToLower(strings.TrimSpace(p.Kind)) {
		case "", "unary":
			d.AddPredicate(UnaryPredicate{Name: name, ArgTypes: trimAll(p.Args)})
		case "binary":
			d.AddPredicate(BinaryPredicate{Name: name})
		default:
			return nil, errors.Wrapf(ErrMalformedSchema, "predicate %s has unknown kind %q", name, p.Kind)
		}
	}
	return d, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
