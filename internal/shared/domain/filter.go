package domain

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// ---------------- Tipos de regla ----------------

type RuleKind string

const (
	KindContains     RuleKind = "contains"
	KindEqualsFold   RuleKind = "equalsCaseInsensitive"
	KindEquals       RuleKind = "equals"
	KindNumericRange RuleKind = "numericRange"
)

// Sufijos con los que un rango numérico viaja en el cuerpo remoto.
const (
	MinSuffix = "_min"
	MaxSuffix = "_max"
)

// Rule es el conjunto cerrado de reglas de coincidencia. Tanto el serializador del cuerpo
// remoto como el compilador del predicado local recorren exactamente estas variantes.
type Rule interface {
	Kind() RuleKind
	// Vacuous indica que la regla no restringe nada: se omite del cuerpo remoto
	// y localmente es siempre verdadera.
	Vacuous() bool
	isRule()
}

// Contains: subcadena, siempre insensible a mayúsculas.
type Contains struct {
	Needle string
}

func (Contains) Kind() RuleKind  { return KindContains }
func (r Contains) Vacuous() bool { return r.Needle == "" }
func (Contains) isRule()         {}

// EqualsFold: igualdad exacta insensible a mayúsculas.
type EqualsFold struct {
	Value string
}

func (EqualsFold) Kind() RuleKind  { return KindEqualsFold }
func (r EqualsFold) Vacuous() bool { return r.Value == "" }
func (EqualsFold) isRule()         {}

// Equals: igualdad exacta contra un escalar (string, número o bool).
type Equals struct {
	Value any
}

func (Equals) Kind() RuleKind { return KindEquals }

// Vacuous también cubre valores no escalares: una regla mal formada no filtra.
func (r Equals) Vacuous() bool {
	if r.Value == nil || r.Value == "" {
		return true
	}
	return !isScalar(r.Value)
}
func (Equals) isRule() {}

// NumericRange: Min y Max opcionales; nil significa sin límite por ese lado.
type NumericRange struct {
	Min *float64
	Max *float64
}

func (NumericRange) Kind() RuleKind  { return KindNumericRange }
func (r NumericRange) Vacuous() bool { return r.Min == nil && r.Max == nil }
func (NumericRange) isRule()         {}

// UnknownRule aparece al decodificar un FilterSpec con un tipo de regla desconocido.
// Nunca filtra.
type UnknownRule struct {
	Name string
}

func (r UnknownRule) Kind() RuleKind { return RuleKind(r.Name) }
func (UnknownRule) Vacuous() bool    { return true }
func (UnknownRule) isRule()          {}

// Float es un atajo para construir límites de NumericRange.
func Float(v float64) *float64 { return &v }

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	default:
		return false
	}
}

// ---------------- FieldRule / FilterSpec ----------------

// FieldRule asocia un campo del registro con su regla.
type FieldRule struct {
	Field string
	Rule  Rule
}

// Criteria permite que los filtros de cada entidad se traduzcan a reglas neutrales.
type Criteria interface {
	ToRules() []FieldRule
}

// FilterSpec es un mapeo ordenado campo -> regla. Un campo aparece como mucho una vez;
// la última regla asignada a un campo gana.
type FilterSpec struct {
	Rules []FieldRule
}

func (s FilterSpec) ToRules() []FieldRule {
	return s.effective()
}

// With devuelve una copia con la regla asignada al campo. Todas las reglas previas del
// campo desaparecen y la nueva ocupa la posición de la primera.
func (s FilterSpec) With(field string, rule Rule) FilterSpec {
	out := FilterSpec{Rules: make([]FieldRule, 0, len(s.Rules)+1)}
	placed := false
	for _, fr := range s.Rules {
		if fr.Field != field {
			out.Rules = append(out.Rules, fr)
			continue
		}
		if !placed {
			out.Rules = append(out.Rules, FieldRule{Field: field, Rule: rule})
			placed = true
		}
	}
	if !placed {
		out.Rules = append(out.Rules, FieldRule{Field: field, Rule: rule})
	}
	return out
}

// IsEmpty indica que el filtro no impone ninguna restricción.
func (s FilterSpec) IsEmpty() bool {
	for _, fr := range s.effective() {
		if fr.Rule != nil && !fr.Rule.Vacuous() {
			return false
		}
	}
	return true
}

// effective elimina campos repetidos (gana la última regla) conservando la posición de la
// primera aparición.
func (s FilterSpec) effective() []FieldRule {
	if len(s.Rules) < 2 {
		return s.Rules
	}
	index := make(map[string]int, len(s.Rules))
	out := make([]FieldRule, 0, len(s.Rules))
	for _, fr := range s.Rules {
		if i, ok := index[fr.Field]; ok {
			out[i].Rule = fr.Rule
			continue
		}
		index[fr.Field] = len(out)
		out = append(out, fr)
	}
	return out
}

// NonVacuous descarta las reglas que no restringen nada.
func NonVacuous(rules []FieldRule) []FieldRule {
	return lo.Filter(rules, func(fr FieldRule, _ int) bool {
		return fr.Rule != nil && !fr.Rule.Vacuous()
	})
}

// And combina varios criterios en un único FilterSpec.
func And(criterias ...Criteria) FilterSpec {
	var spec FilterSpec
	for _, c := range criterias {
		if c == nil {
			continue
		}
		for _, fr := range c.ToRules() {
			spec = spec.With(fr.Field, fr.Rule)
		}
	}
	return spec
}

// ---------------- Cuerpo remoto ----------------

// Body construye el cuerpo JSON del endpoint Filter. Solo se incluyen valores no vacíos:
// la omisión, no el null, indica "sin restricción".
func (s FilterSpec) Body() map[string]any {
	body := make(map[string]any)
	for _, fr := range s.effective() {
		if fr.Field == "" || fr.Rule == nil || fr.Rule.Vacuous() {
			continue
		}
		switch r := fr.Rule.(type) {
		case Contains:
			body[fr.Field] = r.Needle
		case EqualsFold:
			body[fr.Field] = r.Value
		case Equals:
			body[fr.Field] = r.Value
		case NumericRange:
			if r.Min != nil {
				body[fr.Field+MinSuffix] = *r.Min
			}
			if r.Max != nil {
				body[fr.Field+MaxSuffix] = *r.Max
			}
		}
	}
	return body
}

// ---------------- Serialización ----------------

type ruleWire struct {
	Kind   RuleKind `json:"kind"`
	Needle *string  `json:"needle,omitempty"`
	Value  any      `json:"value,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

type fieldRuleWire struct {
	Field string    `json:"field"`
	Rule  *ruleWire `json:"rule,omitempty"`
}

func (s FilterSpec) MarshalJSON() ([]byte, error) {
	wire := make([]fieldRuleWire, 0, len(s.Rules))
	for _, fr := range s.effective() {
		w := fieldRuleWire{Field: fr.Field}
		switch r := fr.Rule.(type) {
		case Contains:
			needle := r.Needle
			w.Rule = &ruleWire{Kind: KindContains, Needle: &needle}
		case EqualsFold:
			w.Rule = &ruleWire{Kind: KindEqualsFold, Value: r.Value}
		case Equals:
			w.Rule = &ruleWire{Kind: KindEquals, Value: r.Value}
		case NumericRange:
			w.Rule = &ruleWire{Kind: KindNumericRange, Min: r.Min, Max: r.Max}
		case UnknownRule:
			w.Rule = &ruleWire{Kind: r.Kind()}
		case nil:
		default:
			return nil, fmt.Errorf("unsupported rule type %T for field %q", fr.Rule, fr.Field)
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

func (s *FilterSpec) UnmarshalJSON(data []byte) error {
	var wire []fieldRuleWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var spec FilterSpec
	for _, w := range wire {
		spec = spec.With(w.Field, decodeRule(w.Rule))
	}
	*s = spec
	return nil
}

func decodeRule(w *ruleWire) Rule {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case KindContains:
		if w.Needle == nil {
			return Contains{}
		}
		return Contains{Needle: *w.Needle}
	case KindEqualsFold:
		s, _ := w.Value.(string)
		return EqualsFold{Value: s}
	case KindEquals:
		return Equals{Value: w.Value}
	case KindNumericRange:
		return NumericRange{Min: w.Min, Max: w.Max}
	default:
		return UnknownRule{Name: string(w.Kind)}
	}
}
