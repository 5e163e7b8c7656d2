package domain

import (
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

const (
	EntityName    = "ventas"
	IdentityField = "id_venta"
	SnapshotName  = "sales"
)

var Entity = sharedDomain.Entity{
	Name:           EntityName,
	Path:           "ventas",
	IdentityField:  IdentityField,
	SnapshotName:   SnapshotName,
	StrippedFields: []string{"comprobante", "firma"},
	Fields: map[string]sharedDomain.RuleKind{
		"descripcion": sharedDomain.KindContains,
		"total":       sharedDomain.KindNumericRange,
		"metodo_pago": sharedDomain.KindEqualsFold,
		"estado":      sharedDomain.KindEqualsFold,
		"id_cliente":  sharedDomain.KindEquals,
		"facturada":   sharedDomain.KindEquals,
	},
}

// Filter es el formulario de búsqueda de ventas.
type Filter struct {
	Descripcion string
	TotalMin    *float64
	TotalMax    *float64
	MetodoPago  string
	Estado      string
	IDCliente   any
	// Facturada nil no filtra.
	Facturada *bool
}

func (f Filter) ToRules() []sharedDomain.FieldRule {
	rules := []sharedDomain.FieldRule{
		{Field: "descripcion", Rule: sharedDomain.Contains{Needle: f.Descripcion}},
		{Field: "total", Rule: sharedDomain.NumericRange{Min: f.TotalMin, Max: f.TotalMax}},
		{Field: "metodo_pago", Rule: sharedDomain.EqualsFold{Value: f.MetodoPago}},
		{Field: "estado", Rule: sharedDomain.EqualsFold{Value: f.Estado}},
		{Field: "id_cliente", Rule: sharedDomain.Equals{Value: f.IDCliente}},
	}
	if f.Facturada != nil {
		rules = append(rules, sharedDomain.FieldRule{Field: "facturada", Rule: sharedDomain.Equals{Value: *f.Facturada}})
	}
	return sharedDomain.NonVacuous(rules)
}
