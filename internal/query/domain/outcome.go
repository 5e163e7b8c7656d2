package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

// ---------------- Estados ----------------

// State es el estado de la máquina de consulta.
// Idle → Fetching → {Succeeded, FallingBack, Rejected, Expired} → Idle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateFallingBack
	StateSucceeded
	StateRejected
	StateExpired
	// StateSuperseded solo aparece en el Outcome devuelto a quien lanzó una consulta
	// que ya no es la última. Nunca es el estado visible del cliente.
	StateSuperseded
)

var stateNames = map[State]string{
	StateIdle:        "idle",
	StateFetching:    "fetching",
	StateFallingBack: "falling_back",
	StateSucceeded:   "succeeded",
	StateRejected:    "rejected",
	StateExpired:     "expired",
	StateSuperseded:  "superseded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Terminal indica si el estado cierra una consulta.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFallingBack, StateRejected, StateExpired, StateSuperseded:
		return true
	}
	return false
}

// ---------------- Rechazos ----------------

type RejectKind string

const (
	RejectServer             RejectKind = "server_rejected"
	RejectNoOfflineData      RejectKind = "no_offline_data"
	RejectStorageUnavailable RejectKind = "storage_unavailable"
	RejectInvalidRequest     RejectKind = "invalid_request"
)

// Rejection es el motivo de un Outcome Rejected.
type Rejection struct {
	Kind     RejectKind `json:"kind"`
	Status   int        `json:"status,omitempty"`
	Messages []string   `json:"messages,omitempty"`
	Err      error      `json:"-"`
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Kind, r.Err)
	}
	return string(r.Kind)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// ---------------- Outcome ----------------

// Outcome es el resultado etiquetado de una consulta. Query nunca devuelve error:
// todo se expresa aquí.
type Outcome struct {
	Token uint64
	State State
	// Page existe en Succeeded y FallingBack.
	Page *sharedDomain.Page
	// StaleSince es la fecha de la instantánea usada en FallingBack.
	StaleSince time.Time
	// Cause es el fallo de transporte que provocó el FallingBack, o el error de Expired.
	Cause  error
	Reason *Rejection
}

func Succeeded(token uint64, page sharedDomain.Page) Outcome {
	return Outcome{Token: token, State: StateSucceeded, Page: &page}
}

func FallingBack(token uint64, page sharedDomain.Page, staleSince time.Time, cause error) Outcome {
	return Outcome{Token: token, State: StateFallingBack, Page: &page, StaleSince: staleSince, Cause: cause}
}

func Rejected(token uint64, reason *Rejection) Outcome {
	return Outcome{Token: token, State: StateRejected, Reason: reason}
}

func Expired(token uint64) Outcome {
	return Outcome{Token: token, State: StateExpired, Cause: sharedDomain.ErrSessionExpired}
}

func Superseded(token uint64) Outcome {
	return Outcome{Token: token, State: StateSuperseded}
}

// Err devuelve el error asociado al Outcome, o nil si produjo una página.
func (o Outcome) Err() error {
	switch o.State {
	case StateRejected:
		if o.Reason != nil {
			return o.Reason
		}
	case StateExpired:
		return sharedDomain.ErrSessionExpired
	}
	return nil
}
