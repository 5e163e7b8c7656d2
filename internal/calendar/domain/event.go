package domain

import (
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

const (
	EntityName    = "eventos"
	IdentityField = "id_evento"
	SnapshotName  = "events"
)

// Entity describe las citas y eventos de la agenda.
var Entity = sharedDomain.Entity{
	Name:           EntityName,
	Path:           "eventos",
	IdentityField:  IdentityField,
	SnapshotName:   SnapshotName,
	StrippedFields: []string{"adjuntos"},
	Fields: map[string]sharedDomain.RuleKind{
		"titulo":      sharedDomain.KindContains,
		"descripcion": sharedDomain.KindContains,
		"tipo":        sharedDomain.KindEqualsFold,
		"estado":      sharedDomain.KindEqualsFold,
		"id_paciente": sharedDomain.KindEquals,
		"id_usuario":  sharedDomain.KindEquals,
	},
}

type Filter struct {
	Titulo      string
	Descripcion string
	Tipo        string
	Estado      string
	IDPaciente  any
	IDUsuario   any
}

func (f Filter) ToRules() []sharedDomain.FieldRule {
	return sharedDomain.NonVacuous([]sharedDomain.FieldRule{
		{Field: "titulo", Rule: sharedDomain.Contains{Needle: f.Titulo}},
		{Field: "descripcion", Rule: sharedDomain.Contains{Needle: f.Descripcion}},
		{Field: "tipo", Rule: sharedDomain.EqualsFold{Value: f.Tipo}},
		{Field: "estado", Rule: sharedDomain.EqualsFold{Value: f.Estado}},
		{Field: "id_paciente", Rule: sharedDomain.Equals{Value: f.IDPaciente}},
		{Field: "id_usuario", Rule: sharedDomain.Equals{Value: f.IDUsuario}},
	})
}
