package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PageRequest describe una consulta filtrada y paginada.
type PageRequest struct {
	Filter     FilterSpec `json:"filter"`
	PageSize   int        `json:"page_size" validate:"min=1"`
	PageNumber int        `json:"page_number" validate:"min=1"`
}

// Validate comprueba tamaño y número de página (ambos >= 1).
func (r PageRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPageRequest, err)
	}
	return nil
}

// Page es una página de registros normalizados.
// Invariantes: len(Items) <= PageSize y PageNumber <= ceil(TotalItems/PageSize) si TotalItems > 0.
type Page struct {
	Items      []Record `json:"items"`
	TotalItems int      `json:"total_items"`
	PageNumber int      `json:"page_number"`
	PageSize   int      `json:"page_size"`
}
