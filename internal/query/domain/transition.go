package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	TransitionTopic = "vetquery.transitions"
	TransitionEvent = "query.transition"
)

// Transition es un cambio de estado visible de un QueryClient. Las transiciones a un
// estado terminal llevan el Outcome.
type Transition struct {
	ID      uuid.UUID `json:"id"`
	Entity  string    `json:"entity"`
	Token   uint64    `json:"token"`
	From    State     `json:"from"`
	To      State     `json:"to"`
	At      time.Time `json:"at"`
	Outcome *Outcome  `json:"-"`

	// Resumen serializable para telemetría.
	TotalItems *int       `json:"total_items,omitempty"`
	StaleSince *time.Time `json:"stale_since,omitempty"`
	Reason     *Rejection `json:"reason,omitempty"`
}

func NewTransition(entity string, token uint64, from, to State, outcome *Outcome) Transition {
	tr := Transition{
		ID:      uuid.New(),
		Entity:  entity,
		Token:   token,
		From:    from,
		To:      to,
		At:      time.Now().UTC(),
		Outcome: outcome,
	}
	if outcome != nil {
		if outcome.Page != nil {
			total := outcome.Page.TotalItems
			tr.TotalItems = &total
		}
		if !outcome.StaleSince.IsZero() {
			stale := outcome.StaleSince
			tr.StaleSince = &stale
		}
		tr.Reason = outcome.Reason
	}
	return tr
}

// NavigationRequired es la señal para volver a la pantalla de acceso.
func (t Transition) NavigationRequired() bool {
	return t.To == StateExpired
}

// PartitionKey agrupa las transiciones por entidad y consulta.
func (t Transition) PartitionKey() string {
	return t.Entity + ":" + strconv.FormatUint(t.Token, 10)
}

func (t Transition) EventType() string {
	return TransitionEvent
}
