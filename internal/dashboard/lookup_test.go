package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/seenimoa/litescan/internal/source"
	"github.com/seenimoa/litescan/pkg/models"
)

// fakeTxSource scripts GetTransaction responses for lookup tests.
type fakeTxSource struct {
	tx  *models.TransactionDetail
	err error
}

func (f *fakeTxSource) GetTransaction(ctx context.Context, hash string) (*models.TransactionDetail, error) {
	return f.tx, f.err
}

func TestLookupStartsIdle(t *testing.T) {
	l := NewLookup(&fakeTxSource{})
	state := l.State()
	if state.Status != LookupIdle {
		t.Errorf("Status = %s, want idle", state.Status)
	}
	if state.Result != nil || state.Message != "" {
		t.Errorf("idle state carries data: %+v", state)
	}
}

func TestLookupSuccess(t *testing.T) {
	detail := &models.TransactionDetail{Hash: "abc123", BlockHeight: 2750000}
	l := NewLookup(&fakeTxSource{tx: detail})

	state := l.Search(context.Background(), "abc123")
	if state.Status != LookupSuccess {
		t.Fatalf("Status = %s, want success", state.Status)
	}
	if state.Result == nil || state.Result.Hash != "abc123" {
		t.Errorf("Result = %+v", state.Result)
	}
	if state.Message != "" {
		t.Errorf("success state carries message %q", state.Message)
	}
}

func TestLookupNotFound(t *testing.T) {
	l := NewLookup(&fakeTxSource{err: fmt.Errorf("%w: deadbeef", source.ErrTxNotFound)})

	state := l.Search(context.Background(), "deadbeef")
	if state.Status != LookupError {
		t.Fatalf("Status = %s, want error", state.Status)
	}
	if state.Result != nil {
		t.Error("error state must not carry a result")
	}
	if state.Message != "Transaction not found. Please check the hash and try again." {
		t.Errorf("Message = %q", state.Message)
	}
}

func TestLookupGenericFailure(t *testing.T) {
	l := NewLookup(&fakeTxSource{err: fmt.Errorf("connection refused")})

	state := l.Search(context.Background(), "abc123")
	if state.Status != LookupError {
		t.Fatalf("Status = %s, want error", state.Status)
	}
	if state.Message != failedLookupMessage {
		t.Errorf("Message = %q", state.Message)
	}
}

func TestLookupErrorClearsPriorResult(t *testing.T) {
	src := &fakeTxSource{tx: &models.TransactionDetail{Hash: "abc123"}}
	l := NewLookup(src)

	if state := l.Search(context.Background(), "abc123"); state.Status != LookupSuccess {
		t.Fatalf("setup: Status = %s", state.Status)
	}

	// Next search fails; the displayed result must be replaced, not kept.
	src.tx = nil
	src.err = fmt.Errorf("%w: nope", source.ErrTxNotFound)

	state := l.Search(context.Background(), "nope")
	if state.Status != LookupError {
		t.Fatalf("Status = %s, want error", state.Status)
	}
	if state.Result != nil {
		t.Error("prior result leaked into error state")
	}
	if persisted := l.State(); persisted.Result != nil || persisted.Status != LookupError {
		t.Errorf("stored state = %+v", persisted)
	}
}

func TestLookupEmptyHashNoOp(t *testing.T) {
	src := &fakeTxSource{tx: &models.TransactionDetail{Hash: "abc123"}}
	l := NewLookup(src)
	l.Search(context.Background(), "abc123")

	// Empty input leaves the current state untouched.
	state := l.Search(context.Background(), "")
	if state.Status != LookupSuccess || state.Result == nil {
		t.Errorf("empty hash disturbed state: %+v", state)
	}
}

func TestLookupReset(t *testing.T) {
	l := NewLookup(&fakeTxSource{tx: &models.TransactionDetail{Hash: "abc123"}})
	l.Search(context.Background(), "abc123")
	l.Reset()

	state := l.State()
	if state.Status != LookupIdle || state.Result != nil || state.Message != "" {
		t.Errorf("state after reset = %+v", state)
	}
}
