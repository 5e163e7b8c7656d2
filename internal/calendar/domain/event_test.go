package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

func TestEventFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   map[string]any
	}{
		{"vacío", Filter{}, map[string]any{}},
		{"agenda de un paciente", Filter{IDPaciente: 12, Estado: "programado"}, map[string]any{"id_paciente": 12, "estado": "programado"}},
		{"texto en título", Filter{Titulo: "cirugía"}, map[string]any{"titulo": "cirugía"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sharedDomain.And(tt.filter).Body())
		})
	}
}
