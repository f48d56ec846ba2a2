package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, httpx.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/periods", nil)
	httpx.RespondError(rec, req, err)

	var envelope httpx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, envelope
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.ErrAuthentication, http.StatusUnauthorized},
		{fmt.Errorf("%w: token expired", shared.ErrAuthentication), http.StatusUnauthorized},
		{shared.ErrPermissionDenied, http.StatusForbidden},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrConflict, http.StatusConflict},
		{shared.ErrValidation, http.StatusBadRequest},
		{shared.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec, envelope := respond(t, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if envelope.Status != tc.status {
			t.Fatalf("%v: envelope status %d does not match %d", tc.err, envelope.Status, tc.status)
		}
		if envelope.Error != http.StatusText(tc.status) {
			t.Fatalf("%v: expected error %q, got %q", tc.err, http.StatusText(tc.status), envelope.Error)
		}
		if envelope.Path != "/periods" {
			t.Fatalf("expected request path in envelope, got %q", envelope.Path)
		}
	}
}

func TestRespondErrorHidesAuthenticationDetail(t *testing.T) {
	_, envelope := respond(t, fmt.Errorf("%w: token signature mismatch", shared.ErrAuthentication))
	if envelope.Message != shared.ErrAuthentication.Error() {
		t.Fatalf("authentication detail leaked: %q", envelope.Message)
	}
}

func TestRespondErrorKeepsPermissionReason(t *testing.T) {
	_, envelope := respond(t, fmt.Errorf("%w: membership does not allow creating periods", shared.ErrPermissionDenied))
	if envelope.Message != "permission denied: membership does not allow creating periods" {
		t.Fatalf("expected domain reason, got %q", envelope.Message)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	_, envelope := respond(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	if envelope.Message != "internal error" {
		t.Fatalf("internal detail leaked: %q", envelope.Message)
	}
}
