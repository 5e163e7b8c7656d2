package fakeapi

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Tipos de filtro que acepta cada campo del servidor.
const (
	KindContains   = "contains"
	KindEqualsFold = "equalsCaseInsensitive"
	KindEquals     = "equals"
	KindRange      = "numericRange"
)

// Schema declara el tipo de filtro de cada campo de una colección.
type Schema map[string]string

// Match decide si el servidor devolvería 'rec' para el cuerpo de filtro 'body'.
// Es una implementación independiente del predicado del cliente; las pruebas de
// paridad comparan ambas.
func Match(schema Schema, body map[string]any, rec map[string]any) bool {
	for key, want := range body {
		if want == nil {
			continue
		}
		if s, ok := want.(string); ok && s == "" {
			continue
		}

		if kind, ok := schema[key]; ok && kind != KindRange {
			if !matchValue(kind, rec[key], want) {
				return false
			}
			continue
		}

		field, isMin := strings.CutSuffix(key, "_min")
		isMax := false
		if !isMin {
			field, isMax = strings.CutSuffix(key, "_max")
		}
		if (!isMin && !isMax) || schema[field] != KindRange {
			continue // los filtros desconocidos se ignoran
		}
		bound, ok := asNumber(want)
		if !ok {
			continue
		}
		got, ok := asNumber(rec[field])
		if !ok {
			return false
		}
		if isMin && got < bound {
			return false
		}
		if !isMin && got > bound {
			return false
		}
	}
	return true
}

func matchValue(kind string, got, want any) bool {
	if got == nil {
		return false
	}
	switch kind {
	case KindContains:
		return strings.Contains(strings.ToLower(asText(got)), strings.ToLower(asText(want)))
	case KindEqualsFold:
		return strings.ToLower(asText(got)) == strings.ToLower(asText(want))
	case KindEquals:
		switch w := want.(type) {
		case string:
			return asText(got) == w
		case bool:
			b, ok := got.(bool)
			return ok && b == w
		case map[string]any, []any:
			return true
		default:
			wn, ok := asNumber(w)
			if !ok {
				return true
			}
			gn, ok := asNumber(got)
			return ok && gn == wn
		}
	}
	return true
}

// asText reproduce cómo serializa el servidor un valor para compararlo como texto.
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		b, _ := json.Marshal(t)
		return string(b)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		// Otros mapas con nombre (p. ej. registros del cliente) se serializan como JSON.
		if b, err := json.Marshal(v); err == nil && (strings.HasPrefix(string(b), "{") || strings.HasPrefix(string(b), "[")) {
			return string(b)
		}
		return fmt.Sprint(v)
	}
}

// asNumber acepta números y texto numérico (con espacios alrededor). Booleanos, nulos,
// objetos y listas no son números. NaN e infinitos tampoco.
func asNumber(v any) (float64, bool) {
	f, ok := rawNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func rawNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}
