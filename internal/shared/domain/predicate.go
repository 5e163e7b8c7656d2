package domain

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

type matcher func(r Record) bool

// Predicate es la versión local de un FilterSpec: coincide con un registro si y solo si el
// servidor, con el mismo filtro, lo habría devuelto.
type Predicate struct {
	matchers []matcher
}

// Compile traduce el filtro a un predicado local. Es total: las reglas desconocidas o mal
// formadas se compilan como siempre verdaderas.
func Compile(spec FilterSpec) Predicate {
	var p Predicate
	for _, fr := range spec.effective() {
		if m := compileRule(fr.Field, fr.Rule); m != nil {
			p.matchers = append(p.matchers, m)
		}
	}
	return p
}

// Matches evalúa todas las reglas (AND).
func (p Predicate) Matches(r Record) bool {
	for _, m := range p.matchers {
		if !m(r) {
			return false
		}
	}
	return true
}

// Filter devuelve los registros que coinciden, en el orden original.
func (p Predicate) Filter(records []Record) []Record {
	return lo.Filter(records, func(r Record, _ int) bool {
		return p.Matches(r)
	})
}

func compileRule(field string, rule Rule) matcher {
	if field == "" || rule == nil || rule.Vacuous() {
		return nil
	}
	switch r := rule.(type) {
	case Contains:
		needle := strings.ToLower(r.Needle)
		return func(rec Record) bool {
			s, ok := stringify(rec, field)
			return ok && strings.Contains(strings.ToLower(s), needle)
		}
	case EqualsFold:
		want := strings.ToLower(r.Value)
		return func(rec Record) bool {
			s, ok := stringify(rec, field)
			return ok && strings.ToLower(s) == want
		}
	case Equals:
		return compileEquals(field, r.Value)
	case NumericRange:
		return func(rec Record) bool {
			v, ok := rec.Lookup(field)
			if !ok {
				return false
			}
			n, ok := toNumber(v)
			if !ok {
				return false
			}
			if r.Min != nil && n < *r.Min {
				return false
			}
			if r.Max != nil && n > *r.Max {
				return false
			}
			return true
		}
	default:
		return nil
	}
}

func compileEquals(field string, want any) matcher {
	switch w := want.(type) {
	case string:
		return func(rec Record) bool {
			s, ok := stringify(rec, field)
			return ok && s == w
		}
	case bool:
		return func(rec Record) bool {
			v, _ := rec.Lookup(field)
			b, ok := v.(bool)
			return ok && b == w
		}
	default:
		wf, err := cast.ToFloat64E(w)
		if err != nil {
			return nil
		}
		return func(rec Record) bool {
			v, ok := rec.Lookup(field)
			if !ok {
				return false
			}
			n, ok := toNumber(v)
			return ok && n == wf
		}
	}
}

// stringify convierte el campo a texto como lo haría el servidor. Campo ausente o nulo: false.
func stringify(rec Record, field string) (string, bool) {
	v, ok := rec.Lookup(field)
	if !ok {
		return "", false
	}
	switch v.(type) {
	case map[string]any, Record, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// toNumber coacciona números y cadenas numéricas. Booleanos, objetos y listas no coaccionan.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool, map[string]any, Record, []any:
		return 0, false
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, false
		}
		return finite(cast.ToFloat64E(t))
	default:
		return finite(cast.ToFloat64E(t))
	}
}

// finite descarta NaN e infinitos: no se pueden comparar con un rango.
func finite(f float64, err error) (float64, bool) {
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
