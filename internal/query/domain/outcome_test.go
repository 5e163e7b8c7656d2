package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

func TestState_TextRoundTrip(t *testing.T) {
	for state := StateIdle; state <= StateSuperseded; state++ {
		text, err := state.MarshalText()
		require.NoError(t, err)

		var back State
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, state, back)
	}

	var s State
	assert.Error(t, s.UnmarshalText([]byte("dormido")))
	assert.Equal(t, "state(42)", State(42).String())
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateFetching.Terminal())
	for _, s := range []State{StateSucceeded, StateFallingBack, StateRejected, StateExpired, StateSuperseded} {
		assert.True(t, s.Terminal(), s.String())
	}
}

func TestOutcome_Err(t *testing.T) {
	page := sharedDomain.Page{Items: []sharedDomain.Record{}}
	storageErr := sharedDomain.NewStorageError("load", "patients", errors.New("disk"))

	tests := []struct {
		name    string
		outcome Outcome
		wantIs  error
		wantNil bool
	}{
		{"succeeded", Succeeded(1, page), nil, true},
		{"fallingBack", FallingBack(1, page, time.Now(), errors.New("offline")), nil, true},
		{"superseded", Superseded(1), nil, true},
		{"expired", Expired(1), sharedDomain.ErrSessionExpired, false},
		{
			"sin datos sin conexión",
			Rejected(1, &Rejection{Kind: RejectNoOfflineData, Err: sharedDomain.ErrNoOfflineData}),
			sharedDomain.ErrNoOfflineData,
			false,
		},
		{
			"almacén no disponible",
			Rejected(1, &Rejection{Kind: RejectStorageUnavailable, Err: storageErr}),
			sharedDomain.ErrStorageUnavailable,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Err()
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestNewTransition_SummarizesOutcome(t *testing.T) {
	stale := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	outcome := FallingBack(7, sharedDomain.Page{TotalItems: 11, PageSize: 11, PageNumber: 1}, stale, errors.New("offline"))

	tr := NewTransition("pacientes", 7, StateFetching, StateFallingBack, &outcome)
	require.NotNil(t, tr.TotalItems)
	assert.Equal(t, 11, *tr.TotalItems)
	require.NotNil(t, tr.StaleSince)
	assert.Equal(t, stale, *tr.StaleSince)
	assert.Equal(t, "pacientes:7", tr.PartitionKey())
	assert.Equal(t, TransitionEvent, tr.EventType())
	assert.False(t, tr.NavigationRequired())

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	var decoded Transition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, StateFallingBack, decoded.To)
	assert.Nil(t, decoded.Outcome)
	assert.Equal(t, tr.ID, decoded.ID)
}

func TestTransition_ExpiredRequiresNavigation(t *testing.T) {
	outcome := Expired(2)
	tr := NewTransition("clientes", 2, StateFetching, StateExpired, &outcome)
	assert.True(t, tr.NavigationRequired())
	assert.Nil(t, tr.TotalItems)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "snapshot:patients", SnapshotKey("patients"))
}
