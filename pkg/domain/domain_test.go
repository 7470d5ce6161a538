package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framework-learner/penrose/internal/errors"
)

func shapes() *Domain {
	return New().
		AddType("Shape").AddType("Set").AddType("Point").AddType("Circle").
		AddSubtype("Set", "Shape").
		AddSubtype("Point", "Shape").
		AddSubtype("Circle", "Set")
}

func TestSortedNames(t *testing.T) {
	d := shapes().
		AddPredicate(UnaryPredicate{Name: "Z", ArgTypes: []string{"Set"}}).
		AddPredicate(BinaryPredicate{Name: "A"})

	assert.Equal(t, []string{"Circle", "Point", "Set", "Shape"}, d.TypeNames())
	assert.Equal(t, []string{"A", "Z"}, d.PredicateNames())
}

func TestSubtypeQueries(t *testing.T) {
	d := shapes()

	assert.Equal(t, []string{"Set", "Shape"}, d.Ancestors("Circle"))
	assert.Equal(t, []string{"Circle", "Point", "Set"}, d.Descendants("Shape"))
	assert.Empty(t, d.Descendants("Point"))
	assert.Empty(t, d.Ancestors("Shape"))

	assert.True(t, d.IsSubtype("Circle", "Shape"))
	assert.True(t, d.IsSubtype("Set", "Set"))
	assert.False(t, d.IsSubtype("Shape", "Set"))
	assert.False(t, d.IsSubtype("Point", "Set"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		domain  *Domain
		wantErr error
	}{
		{name: "valid", domain: shapes()},
		{
			name:    "edge to undeclared type",
			domain:  New().AddType("Set").AddSubtype("Set", "Shape"),
			wantErr: ErrUnknownType,
		},
		{
			name:    "predicate over undeclared type",
			domain:  New().AddType("Set").AddPredicate(UnaryPredicate{Name: "On", ArgTypes: []string{"Line"}}),
			wantErr: ErrUnknownType,
		},
		{
			name:    "cycle",
			domain:  New().AddType("A").AddType("B").AddSubtype("A", "B").AddSubtype("B", "A"),
			wantErr: ErrMalformedSchema,
		},
		{
			name:    "self edge",
			domain:  New().AddType("A").AddSubtype("A", "A"),
			wantErr: ErrMalformedSchema,
		},
		{
			name: "parameterised constructor",
			domain: func() *Domain {
				d := New()
				d.Types["List"] = TypeConstructor{Name: "List", Params: []string{"T"}}
				return d
			}(),
			wantErr: ErrMalformedSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.domain.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPredicateKinds(t *testing.T) {
	var p Predicate = UnaryPredicate{Name: "IsSubset", ArgTypes: []string{"Set", "Set"}}
	assert.Equal(t, KindUnary, p.Kind())
	assert.Equal(t, "IsSubset", p.PredicateName())

	p = BinaryPredicate{Name: "And"}
	assert.Equal(t, KindBinary, p.Kind())
	assert.Equal(t, "binary", p.Kind().String())
}
