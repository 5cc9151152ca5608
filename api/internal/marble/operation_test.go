package marble

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollOperationUntilDone(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/marble/v1/operations/op_1", r.URL.Path)
		n := calls.Add(1)
		op := Operation{OperationID: "op_1"}
		if n >= 3 {
			op.Done = true
			op.Response = &World{ID: "w_done"}
		}
		json.NewEncoder(w).Encode(op)
	})

	op, err := c.PollOperation(context.Background(), "op_1", PollOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.Equal(t, "w_done", op.Response.ID)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPollOperationFailureIsNotTransportError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Operation{
			OperationID: "op_1",
			Done:        true,
			Error:       &OperationError{Code: 9, Message: "prompt rejected"},
		})
	})

	// A failed operation still completed: poll returns it without error and
	// the caller inspects Err().
	op, err := c.PollOperation(context.Background(), "op_1", PollOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	require.Error(t, op.Err())
	assert.Contains(t, op.Err().Error(), "prompt rejected")
}

func TestPollOperationTimeout(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Operation{OperationID: "op_1"})
	})

	_, err := c.PollOperation(context.Background(), "op_1", PollOptions{
		Interval: time.Millisecond,
		Timeout:  10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not complete")
}

func TestPollOperationContextCancel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Operation{OperationID: "op_1"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := c.PollOperation(ctx, "op_1", PollOptions{Interval: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollOperationIntervalGrowth(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		json.NewEncoder(w).Encode(Operation{OperationID: "op_1", Done: n >= 4})
	}))
	t.Cleanup(srv.Close)
	c := NewWithOptions("k", srv.URL, time.Second)

	start := time.Now()
	op, err := c.PollOperation(context.Background(), "op_1", PollOptions{
		Interval:    2 * time.Millisecond,
		Multiplier:  2,
		MaxInterval: 4 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, op.Done)
	// Waits: 2ms, 4ms, 4ms (capped) between the four fetches.
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestPollOperationTransportErrorPropagates(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.PollOperation(context.Background(), "op_1", PollOptions{Interval: time.Millisecond})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
