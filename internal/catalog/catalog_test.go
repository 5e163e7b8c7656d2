package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	patientDomain "github.com/davicafu/vetquery/internal/patient/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

func TestRegistry_EntitiesAreConsistent(t *testing.T) {
	for name, e := range NewEntityRegistry() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, e.Name)
			assert.NotEmpty(t, e.Path)
			assert.NotEmpty(t, e.SnapshotName)
			assert.NotEmpty(t, e.IdentityField)
			assert.NotEmpty(t, e.Fields)
			for _, stripped := range e.StrippedFields {
				assert.NotContains(t, e.Fields, stripped, "un campo filtrable no puede descartarse")
				assert.NotEqual(t, e.IdentityField, stripped)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	e, err := Lookup("pacientes")
	require.NoError(t, err)
	assert.Equal(t, patientDomain.IdentityField, e.IdentityField)

	e, err = Lookup("patients")
	require.NoError(t, err)
	assert.Equal(t, "pacientes", e.Name)

	_, err = Lookup("facturas")
	assert.ErrorContains(t, err, "unknown entity")
}

func TestParseFilter(t *testing.T) {
	spec, err := ParseFilter(patientDomain.Entity, []string{
		"especie=canino",
		"historia_clinica=otitis",
		"edad=2..10",
		"peso=..7.5",
		"id_cliente=12",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"especie":          "canino",
		"historia_clinica": "otitis",
		"edad_min":         2.0,
		"edad_max":         10.0,
		"peso_max":         7.5,
		"id_cliente":       "12",
	}, spec.Body())

	rules := spec.ToRules()
	require.Len(t, rules, 5)
	assert.Equal(t, sharedDomain.KindEqualsFold, rules[0].Rule.Kind())
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "sin igual", expr: "especie"},
		{name: "campo vacío", expr: "=canino"},
		{name: "campo no filtrable", expr: "foto=x"},
		{name: "rango no numérico", expr: "edad=joven"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(patientDomain.Entity, []string{tt.expr})
			assert.Error(t, err)
		})
	}
}

func TestParseFilter_SingleValueRange(t *testing.T) {
	spec, err := ParseFilter(patientDomain.Entity, []string{"edad=3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"edad_min": 3.0, "edad_max": 3.0}, spec.Body())
}
