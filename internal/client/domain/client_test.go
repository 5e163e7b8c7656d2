package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

func TestClientFilter(t *testing.T) {
	spec := sharedDomain.And(Filter{Apellido: "garcía", Cedula: "1700000001"})
	assert.Equal(t, map[string]any{"apellido": "garcía", "cedula": "1700000001"}, spec.Body())

	clients := []sharedDomain.Record{
		{"id_cliente": 1.0, "apellido": "García", "cedula": "1700000001"},
		{"id_cliente": 2.0, "apellido": "García", "cedula": "1700000002"},
	}
	assert.Equal(t, clients[:1], sharedDomain.Compile(spec).Filter(clients))
}

func TestClientEntity_StripsHeavyFields(t *testing.T) {
	got := Entity.PrepareForSnapshot([]sharedDomain.Record{{"id_cliente": 9.0, "foto": "...", "firma": "...", "email": "a@b.ec"}})
	assert.Equal(t, []sharedDomain.Record{{"id": 9.0, "id_cliente": 9.0, "email": "a@b.ec"}}, got)
}
