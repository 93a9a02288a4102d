package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/gamehub/internal/testutil"
)

func TestLoggingEchoesRequestID(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"size":2`)
}

func TestLoggingServerErrorsAtErrorLevel(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestRecoveryRespondsAfterPanic(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	var responded bool
	respond := func(w http.ResponseWriter, r *http.Request) {
		responded = true
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	h := Recovery(logger, respond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.True(t, responded)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, buf.String(), "handler panicked")
	assert.Contains(t, buf.String(), `"panic":"boom"`)
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
}

func TestRecoveryPassesThroughWithoutPanic(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	respond := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("responder must not run")
	}
	h := Recovery(logger, respond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, buf.String())
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	h := Recovery(testutil.NopLogger(), func(http.ResponseWriter, *http.Request) {})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
