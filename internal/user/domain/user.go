package domain

import (
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

const (
	EntityName    = "usuarios"
	IdentityField = "id_usuario"
	SnapshotName  = "users"
)

// Entity describe a los usuarios del sistema (veterinarios, recepción, administración).
var Entity = sharedDomain.Entity{
	Name:           EntityName,
	Path:           "usuarios",
	IdentityField:  IdentityField,
	SnapshotName:   SnapshotName,
	StrippedFields: []string{"foto", "firma"},
	Fields: map[string]sharedDomain.RuleKind{
		"nombre":  sharedDomain.KindContains,
		"usuario": sharedDomain.KindContains,
		"rol":     sharedDomain.KindEqualsFold,
		"email":   sharedDomain.KindEqualsFold,
		"activo":  sharedDomain.KindEquals,
	},
}

// Filtrado por email exacto (sin distinguir mayúsculas)
type EmailCriteria struct {
	Email string
}

func (c EmailCriteria) ToRules() []sharedDomain.FieldRule {
	return []sharedDomain.FieldRule{{Field: "email", Rule: sharedDomain.EqualsFold{Value: c.Email}}}
}

// Filtrado por nombre (subcadena)
type NameLikeCriteria struct {
	Name string
}

func (c NameLikeCriteria) ToRules() []sharedDomain.FieldRule {
	return []sharedDomain.FieldRule{{Field: "nombre", Rule: sharedDomain.Contains{Needle: c.Name}}}
}

// Filter es el formulario de búsqueda de usuarios.
type Filter struct {
	Nombre  string
	Usuario string
	Rol     string
	Email   string
	Activo  *bool
}

func (f Filter) ToRules() []sharedDomain.FieldRule {
	rules := []sharedDomain.FieldRule{
		{Field: "nombre", Rule: sharedDomain.Contains{Needle: f.Nombre}},
		{Field: "usuario", Rule: sharedDomain.Contains{Needle: f.Usuario}},
		{Field: "rol", Rule: sharedDomain.EqualsFold{Value: f.Rol}},
		{Field: "email", Rule: sharedDomain.EqualsFold{Value: f.Email}},
	}
	if f.Activo != nil {
		rules = append(rules, sharedDomain.FieldRule{Field: "activo", Rule: sharedDomain.Equals{Value: *f.Activo}})
	}
	return sharedDomain.NonVacuous(rules)
}
