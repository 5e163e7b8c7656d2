package domain

import (
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

const (
	EntityName    = "pacientes"
	IdentityField = "id_paciente"
	SnapshotName  = "patients"
)

// Entity describe a los pacientes (mascotas) del servicio clínico.
// La foto se descarta al guardar sin conexión.
var Entity = sharedDomain.Entity{
	Name:           EntityName,
	Path:           "pacientes",
	IdentityField:  IdentityField,
	SnapshotName:   SnapshotName,
	StrippedFields: []string{"foto", "imagen"},
	Fields: map[string]sharedDomain.RuleKind{
		"nombre":           sharedDomain.KindContains,
		"especie":          sharedDomain.KindEqualsFold,
		"raza":             sharedDomain.KindContains,
		"sexo":             sharedDomain.KindEqualsFold,
		"historia_clinica": sharedDomain.KindContains,
		"edad":             sharedDomain.KindNumericRange,
		"peso":             sharedDomain.KindNumericRange,
		"id_cliente":       sharedDomain.KindEquals,
	},
}

// ---------------- Criterios concretos ----------------

// Filtrado por especie (sin distinguir mayúsculas)
type SpeciesCriteria struct {
	Especie string
}

func (c SpeciesCriteria) ToRules() []sharedDomain.FieldRule {
	return []sharedDomain.FieldRule{{Field: "especie", Rule: sharedDomain.EqualsFold{Value: c.Especie}}}
}

// Pacientes de un cliente
type OwnerCriteria struct {
	IDCliente any
}

func (c OwnerCriteria) ToRules() []sharedDomain.FieldRule {
	return []sharedDomain.FieldRule{{Field: "id_cliente", Rule: sharedDomain.Equals{Value: c.IDCliente}}}
}

// Filtrado por rango de edad (años)
type AgeRangeCriteria struct {
	Min *float64
	Max *float64
}

func (c AgeRangeCriteria) ToRules() []sharedDomain.FieldRule {
	return []sharedDomain.FieldRule{{Field: "edad", Rule: sharedDomain.NumericRange{Min: c.Min, Max: c.Max}}}
}

// Filter es el formulario de búsqueda de la pantalla de pacientes. Los campos vacíos no filtran.
type Filter struct {
	Nombre          string
	Especie         string
	Raza            string
	Sexo            string
	HistoriaClinica string
	EdadMin         *float64
	EdadMax         *float64
	PesoMin         *float64
	PesoMax         *float64
	IDCliente       any
}

func (f Filter) ToRules() []sharedDomain.FieldRule {
	rules := []sharedDomain.FieldRule{
		{Field: "nombre", Rule: sharedDomain.Contains{Needle: f.Nombre}},
		{Field: "especie", Rule: sharedDomain.EqualsFold{Value: f.Especie}},
		{Field: "raza", Rule: sharedDomain.Contains{Needle: f.Raza}},
		{Field: "sexo", Rule: sharedDomain.EqualsFold{Value: f.Sexo}},
		{Field: "historia_clinica", Rule: sharedDomain.Contains{Needle: f.HistoriaClinica}},
		{Field: "edad", Rule: sharedDomain.NumericRange{Min: f.EdadMin, Max: f.EdadMax}},
		{Field: "peso", Rule: sharedDomain.NumericRange{Min: f.PesoMin, Max: f.PesoMax}},
		{Field: "id_cliente", Rule: sharedDomain.Equals{Value: f.IDCliente}},
	}
	return sharedDomain.NonVacuous(rules)
}
