package domain

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Entity describe un tipo de registro del servicio clínico: dónde se consulta, cómo se
// identifica y cómo se guarda sin conexión.
type Entity struct {
	// Name identifica la entidad en logs y eventos (ej. "pacientes").
	Name string
	// Path es el segmento del endpoint: POST <host>/<Path>/Filter/<size>/<page>.
	Path string
	// IdentityField es el campo de identidad propio (ej. "id_paciente").
	IdentityField string
	// SnapshotName es la clave de la instantánea local.
	SnapshotName string
	// StrippedFields son campos pesados que no se guardan sin conexión.
	StrippedFields []string
	// Fields declara el tipo de regla que el servidor aplica a cada campo filtrable.
	Fields map[string]RuleKind
}

// PrepareForSnapshot normaliza la identidad y elimina los campos pesados, sin tocar
// la identidad ni los campos filtrables.
func (e Entity) PrepareForSnapshot(records []Record) []Record {
	protected := make([]string, 0, len(e.Fields)+1)
	protected = append(protected, e.IdentityField)
	for f := range e.Fields {
		protected = append(protected, f)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, Strip(NormalizeIdentity(r, e.IdentityField), e.StrippedFields, protected...))
	}
	return out
}

// RangeSeparator separa los límites de un rango escrito como texto: "2..10", "..10", "2..".
const RangeSeparator = ".."

// RuleFor construye la regla declarada para 'field' a partir de un valor escrito como texto.
func (e Entity) RuleFor(field, raw string) (Rule, error) {
	kind, ok := e.Fields[field]
	if !ok {
		return nil, fmt.Errorf("%s: field %q is not filterable", e.Name, field)
	}
	switch kind {
	case KindContains:
		return Contains{Needle: raw}, nil
	case KindEqualsFold:
		return EqualsFold{Value: raw}, nil
	case KindEquals:
		return Equals{Value: parseScalar(raw)}, nil
	case KindNumericRange:
		return parseRange(raw)
	default:
		return UnknownRule{Name: string(kind)}, nil
	}
}

// parseScalar solo interpreta true/false. Un número queda como texto: la igualdad con
// texto compara la forma textual del campo, así "007" no se convierte en 7.
func parseScalar(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

func parseRange(raw string) (Rule, error) {
	lo, hi, found := strings.Cut(raw, RangeSeparator)
	if !found {
		hi = lo
	}
	var r NumericRange
	for _, b := range []struct {
		text string
		dst  **float64
	}{{lo, &r.Min}, {hi, &r.Max}} {
		text := strings.TrimSpace(b.text)
		if text == "" {
			continue
		}
		n, err := cast.ToFloat64E(text)
		if err != nil {
			return nil, fmt.Errorf("invalid range bound %q: %w", text, err)
		}
		*b.dst = Float(n)
	}
	return r, nil
}
