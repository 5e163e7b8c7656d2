package catalog

import (
	"fmt"
	"sort"
	"strings"

	calendarDomain "github.com/davicafu/vetquery/internal/calendar/domain"
	clientDomain "github.com/davicafu/vetquery/internal/client/domain"
	patientDomain "github.com/davicafu/vetquery/internal/patient/domain"
	saleDomain "github.com/davicafu/vetquery/internal/sale/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	userDomain "github.com/davicafu/vetquery/internal/user/domain"
)

// NewEntityRegistry devuelve todas las entidades consultables, por nombre.
func NewEntityRegistry() map[string]sharedDomain.Entity {
	return map[string]sharedDomain.Entity{
		patientDomain.EntityName:  patientDomain.Entity,
		clientDomain.EntityName:   clientDomain.Entity,
		userDomain.EntityName:     userDomain.Entity,
		saleDomain.EntityName:     saleDomain.Entity,
		calendarDomain.EntityName: calendarDomain.Entity,
	}
}

// Names lista las entidades en orden alfabético.
func Names() []string {
	names := make([]string, 0, 5)
	for name := range NewEntityRegistry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup busca una entidad por nombre o por nombre de instantánea.
func Lookup(name string) (sharedDomain.Entity, error) {
	registry := NewEntityRegistry()
	if e, ok := registry[name]; ok {
		return e, nil
	}
	for _, e := range registry {
		if e.SnapshotName == name {
			return e, nil
		}
	}
	return sharedDomain.Entity{}, fmt.Errorf("unknown entity %q (available: %s)", name, strings.Join(Names(), ", "))
}

// ParseFilter convierte expresiones "campo=valor" en un FilterSpec usando el tipo de regla
// declarado por la entidad.
func ParseFilter(entity sharedDomain.Entity, exprs []string) (sharedDomain.FilterSpec, error) {
	var spec sharedDomain.FilterSpec
	for _, expr := range exprs {
		field, value, ok := strings.Cut(expr, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return sharedDomain.FilterSpec{}, fmt.Errorf("invalid filter %q: expected field=value", expr)
		}
		rule, err := entity.RuleFor(field, value)
		if err != nil {
			return sharedDomain.FilterSpec{}, err
		}
		spec = spec.With(field, rule)
	}
	return spec, nil
}
