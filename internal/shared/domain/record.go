package domain

import "github.com/samber/lo"

// IDField es el campo de identidad homogéneo que llevan todos los registros devueltos.
const IDField = "id"

// Record es una entidad opaca del servicio remoto (paciente, cliente, usuario, venta, evento).
// Los valores son los que produce encoding/json: string, float64, bool, nil,
// map[string]any o []any.
type Record map[string]any

// Clone hace una copia superficial del registro.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Lookup devuelve el valor del campo y si existe con un valor no nulo.
func (r Record) Lookup(field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// NormalizeIdentity copia el campo de identidad propio de la entidad (id_paciente,
// id_usuario...) en "id". El campo original se conserva porque las entidades hijas lo
// referencian, y un "id" no vacío ya presente nunca se sobreescribe.
func NormalizeIdentity(r Record, identityField string) Record {
	out := r.Clone()
	if identityField == "" || identityField == IDField {
		return out
	}
	if current, ok := out.Lookup(IDField); ok && current != "" {
		return out
	}
	if v, ok := out.Lookup(identityField); ok {
		out[IDField] = v
	}
	return out
}

// NormalizeAll aplica NormalizeIdentity a cada registro conservando el orden.
func NormalizeAll(records []Record, identityField string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, NormalizeIdentity(r, identityField))
	}
	return out
}

// Strip elimina campos pesados (fotos, firmas) antes de persistir. Nunca elimina la
// identidad ni los campos protegidos.
func Strip(r Record, fields []string, protected ...string) Record {
	out := r.Clone()
	for _, f := range fields {
		if f == IDField || lo.Contains(protected, f) {
			continue
		}
		delete(out, f)
	}
	return out
}
