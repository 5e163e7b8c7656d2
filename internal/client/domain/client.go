package domain

import (
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

const (
	EntityName    = "clientes"
	IdentityField = "id_cliente"
	SnapshotName  = "clients"
)

// Entity describe a los clientes (propietarios) de la clínica.
var Entity = sharedDomain.Entity{
	Name:           EntityName,
	Path:           "clientes",
	IdentityField:  IdentityField,
	SnapshotName:   SnapshotName,
	StrippedFields: []string{"foto", "firma"},
	Fields: map[string]sharedDomain.RuleKind{
		"nombre":    sharedDomain.KindContains,
		"apellido":  sharedDomain.KindContains,
		"cedula":    sharedDomain.KindEquals,
		"telefono":  sharedDomain.KindContains,
		"email":     sharedDomain.KindEqualsFold,
		"direccion": sharedDomain.KindContains,
	},
}

// Filter es el formulario de búsqueda de clientes.
type Filter struct {
	Nombre    string
	Apellido  string
	Cedula    string
	Telefono  string
	Email     string
	Direccion string
}

func (f Filter) ToRules() []sharedDomain.FieldRule {
	return sharedDomain.NonVacuous([]sharedDomain.FieldRule{
		{Field: "nombre", Rule: sharedDomain.Contains{Needle: f.Nombre}},
		{Field: "apellido", Rule: sharedDomain.Contains{Needle: f.Apellido}},
		{Field: "cedula", Rule: sharedDomain.Equals{Value: f.Cedula}},
		{Field: "telefono", Rule: sharedDomain.Contains{Needle: f.Telefono}},
		{Field: "email", Rule: sharedDomain.EqualsFold{Value: f.Email}},
		{Field: "direccion", Rule: sharedDomain.Contains{Needle: f.Direccion}},
	})
}
