package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSpec_Body(t *testing.T) {
	tests := []struct {
		name string
		spec FilterSpec
		want map[string]any
	}{
		{
			name: "filtro vacío",
			spec: FilterSpec{},
			want: map[string]any{},
		},
		{
			name: "se omiten las reglas vacías",
			spec: FilterSpec{}.
				With("nombre", Contains{}).
				With("especie", EqualsFold{Value: "Canino"}).
				With("edad", NumericRange{}).
				With("id_cliente", Equals{Value: ""}),
			want: map[string]any{"especie": "Canino"},
		},
		{
			name: "rango con ambos límites",
			spec: FilterSpec{}.With("peso", NumericRange{Min: Float(2), Max: Float(7.5)}),
			want: map[string]any{"peso_min": 2.0, "peso_max": 7.5},
		},
		{
			name: "rango abierto por abajo",
			spec: FilterSpec{}.With("edad", NumericRange{Max: Float(10)}),
			want: map[string]any{"edad_max": 10.0},
		},
		{
			name: "igualdad con booleano y número",
			spec: FilterSpec{}.
				With("facturada", Equals{Value: false}).
				With("id_cliente", Equals{Value: 42}),
			want: map[string]any{"facturada": false, "id_cliente": 42},
		},
		{
			name: "regla desconocida no viaja",
			spec: FilterSpec{}.With("color", UnknownRule{Name: "regex"}),
			want: map[string]any{},
		},
		{
			name: "igualdad no escalar no viaja",
			spec: FilterSpec{}.With("tags", Equals{Value: []any{"a"}}),
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Body())
		})
	}
}

func TestFilterSpec_WithReplacesPreviousRule(t *testing.T) {
	base := FilterSpec{}.With("nombre", Contains{Needle: "lu"})
	next := base.With("nombre", Contains{Needle: "max"}).With("especie", EqualsFold{Value: "felino"})

	assert.Equal(t, map[string]any{"nombre": "lu"}, base.Body(), "With no modifica el original")
	assert.Equal(t, map[string]any{"nombre": "max", "especie": "felino"}, next.Body())
	assert.Len(t, next.Rules, 2)
}

func TestFilterSpec_LastRuleWinsForDuplicates(t *testing.T) {
	spec := FilterSpec{Rules: []FieldRule{
		{Field: "nombre", Rule: Contains{Needle: "lu"}},
		{Field: "especie", Rule: EqualsFold{Value: "ave"}},
		{Field: "nombre", Rule: Contains{Needle: "ki"}},
	}}

	rules := spec.ToRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "nombre", rules[0].Field)
	assert.Equal(t, Contains{Needle: "ki"}, rules[0].Rule)
	assert.Equal(t, map[string]any{"nombre": "ki", "especie": "ave"}, spec.Body())
}

func TestFilterSpec_WithOverridesEveryDuplicate(t *testing.T) {
	spec := FilterSpec{Rules: []FieldRule{
		{Field: "especie", Rule: EqualsFold{Value: "canino"}},
		{Field: "nombre", Rule: Contains{Needle: "lu"}},
		{Field: "especie", Rule: EqualsFold{Value: "felino"}},
	}}

	next := spec.With("especie", EqualsFold{Value: "ave"})

	require.Len(t, next.Rules, 2)
	assert.Equal(t, FieldRule{Field: "especie", Rule: EqualsFold{Value: "ave"}}, next.Rules[0])
	assert.Equal(t, map[string]any{"especie": "ave", "nombre": "lu"}, next.Body())
	assert.True(t, Compile(next).Matches(Record{"especie": "Ave", "nombre": "Lucas"}))
	assert.False(t, Compile(next).Matches(Record{"especie": "Felino", "nombre": "Lucas"}))
	assert.Len(t, spec.Rules, 3, "With no modifica el original")
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.IsEmpty())
	assert.True(t, FilterSpec{}.With("nombre", Contains{}).With("x", UnknownRule{Name: "y"}).IsEmpty())
	assert.False(t, FilterSpec{}.With("edad", NumericRange{Min: Float(0)}).IsEmpty())
}

func TestFilterSpec_JSONKeepsEveryVariant(t *testing.T) {
	spec := FilterSpec{}.
		With("nombre", Contains{Needle: "lu"}).
		With("especie", EqualsFold{Value: "Canino"}).
		With("facturada", Equals{Value: true}).
		With("edad", NumericRange{Min: Float(1)})

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	var decoded FilterSpec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, spec.Body(), decoded.Body())
	assert.Equal(t, spec.Rules, decoded.Rules)
}

func TestFilterSpec_UnknownKindDecodesAsUnknownRule(t *testing.T) {
	raw := `[{"field":"nombre","rule":{"kind":"soundex","value":"lu"}},{"field":"especie","rule":{"kind":"equalsCaseInsensitive","value":"ave"}}]`

	var spec FilterSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))
	require.Len(t, spec.Rules, 2)
	assert.Equal(t, UnknownRule{Name: "soundex"}, spec.Rules[0].Rule)
	assert.Equal(t, map[string]any{"especie": "ave"}, spec.Body())

	pred := Compile(spec)
	assert.True(t, pred.Matches(Record{"nombre": "zzz", "especie": "Ave"}))
}

func TestNonVacuous(t *testing.T) {
	rules := []FieldRule{
		{Field: "a", Rule: Contains{}},
		{Field: "b", Rule: Contains{Needle: "x"}},
		{Field: "c", Rule: nil},
		{Field: "d", Rule: NumericRange{Max: Float(1)}},
	}
	got := NonVacuous(rules)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Field)
	assert.Equal(t, "d", got[1].Field)
}

type nameCriteria struct{ needle string }

func (c nameCriteria) ToRules() []FieldRule {
	return []FieldRule{{Field: "nombre", Rule: Contains{Needle: c.needle}}}
}

func TestAnd_CombinesCriteria(t *testing.T) {
	spec := And(
		nameCriteria{needle: "lu"},
		nil,
		FilterSpec{}.With("especie", EqualsFold{Value: "canino"}),
		nameCriteria{needle: "na"},
	)
	assert.Equal(t, map[string]any{"nombre": "na", "especie": "canino"}, spec.Body())
}

func TestPageRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     PageRequest
		wantErr bool
	}{
		{"válida", PageRequest{PageSize: 5, PageNumber: 1}, false},
		{"tamaño cero", PageRequest{PageSize: 0, PageNumber: 1}, true},
		{"página negativa", PageRequest{PageSize: 5, PageNumber: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPageRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}
