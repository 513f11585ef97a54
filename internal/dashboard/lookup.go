package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/seenimoa/litescan/internal/source"
	"github.com/seenimoa/litescan/pkg/models"
)

// LookupStatus enumerates the states of the on-demand transaction
// lookup.
type LookupStatus string

const (
	LookupIdle    LookupStatus = "idle"
	LookupSuccess LookupStatus = "success"
	LookupError   LookupStatus = "error"
)

// failedLookupMessage is the user-facing message for a failed lookup.
const failedLookupMessage = "Failed to fetch transaction data. Please check the hash and try again."

// TxLookup is the fetch-by-hash capability the lookup state machine
// drives.
type TxLookup interface {
	GetTransaction(ctx context.Context, hash string) (*models.TransactionDetail, error)
}

// LookupState is the externally visible lookup state. Result and
// Message are mutually exclusive.
type LookupState struct {
	Status  LookupStatus              `json:"status"`
	Result  *models.TransactionDetail `json:"result,omitempty"`
	Message string                    `json:"message,omitempty"`
}

// Lookup runs on-demand transaction searches. Unlike the bulk path, a
// failure here is classified and surfaced as a human-readable message,
// and any previously displayed result is cleared.
type Lookup struct {
	src TxLookup

	mu    sync.Mutex
	state LookupState
}

// NewLookup creates a lookup in the Idle state.
func NewLookup(src TxLookup) *Lookup {
	return &Lookup{
		src:   src,
		state: LookupState{Status: LookupIdle},
	}
}

// Search looks up the given hash and transitions to Success or Error.
// An empty hash is a no-op: the current state is returned unchanged.
func (l *Lookup) Search(ctx context.Context, hash string) LookupState {
	if hash == "" {
		return l.State()
	}

	detail, err := l.src.GetTransaction(ctx, hash)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		msg := failedLookupMessage
		if errors.Is(err, source.ErrTxNotFound) {
			msg = "Transaction not found. Please check the hash and try again."
		}
		// Error replaces any prior success entirely.
		l.state = LookupState{Status: LookupError, Message: msg}
	} else {
		l.state = LookupState{Status: LookupSuccess, Result: detail}
	}
	return l.state
}

// State returns the current lookup state.
func (l *Lookup) State() LookupState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reset returns the lookup to Idle, clearing any result or message.
func (l *Lookup) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = LookupState{Status: LookupIdle}
}
