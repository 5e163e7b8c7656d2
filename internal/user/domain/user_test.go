package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

func TestUserCriteria(t *testing.T) {
	active := true
	tests := []struct {
		name     string
		criteria []sharedDomain.Criteria
		want     map[string]any
	}{
		{
			name:     "email y nombre",
			criteria: []sharedDomain.Criteria{EmailCriteria{Email: "Vet@Clinica.test"}, NameLikeCriteria{Name: "ana"}},
			want:     map[string]any{"email": "Vet@Clinica.test", "nombre": "ana"},
		},
		{
			name:     "formulario con activo",
			criteria: []sharedDomain.Criteria{Filter{Rol: "veterinario", Activo: &active}},
			want:     map[string]any{"rol": "veterinario", "activo": true},
		},
		{
			name:     "formulario vacío",
			criteria: []sharedDomain.Criteria{Filter{}},
			want:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sharedDomain.And(tt.criteria...).Body())
		})
	}
}

func TestUserFilter_MatchesLocally(t *testing.T) {
	users := []sharedDomain.Record{
		{"id_usuario": 1.0, "nombre": "Ana Pérez", "rol": "Veterinario", "activo": true},
		{"id_usuario": 2.0, "nombre": "Luis Mora", "rol": "Recepción", "activo": true},
		{"id_usuario": 3.0, "nombre": "Ana Gil", "rol": "veterinario", "activo": false},
	}
	active := true
	spec := sharedDomain.And(Filter{Rol: "VETERINARIO", Activo: &active})

	got := sharedDomain.Compile(spec).Filter(users)
	assert.Equal(t, []sharedDomain.Record{users[0]}, got)
}
