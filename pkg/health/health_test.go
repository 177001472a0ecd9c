package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, fn http.HandlerFunc) (int, probeResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var resp probeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestReadyEndpoint_GatedBySetReady(t *testing.T) {
	svc := New()

	code, resp := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", resp.Status)

	svc.SetReady(true)
	code, resp = probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestCheck_FailureThreshold(t *testing.T) {
	svc := New()
	svc.SetReady(true)

	fail := true
	svc.AddReadinessCheck("dep", time.Second, func(_ context.Context) error {
		if fail {
			return errors.New("dep down")
		}
		return nil
	})

	ctx := context.Background()

	// Below the threshold the check still reports healthy.
	svc.runAll(ctx)
	svc.runAll(ctx)
	code, _ := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)

	// Third consecutive failure flips it.
	svc.runAll(ctx)
	code, resp := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "dep down", resp.Checks["dep"])

	// One success restores it.
	fail = false
	svc.runAll(ctx)
	code, _ = probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestLiveEndpoint_IndependentOfReadiness(t *testing.T) {
	svc := New()
	svc.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(100000))
	svc.runAll(context.Background())

	code, resp := probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Checks["goroutines"])
}

func TestStartStop(t *testing.T) {
	svc := New()
	ran := make(chan struct{}, 1)
	svc.AddLivenessCheck("once", time.Second, func(_ context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	svc.Start(context.Background(), time.Hour)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("check did not run")
	}
	svc.Stop()
}
