package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/recaptcha"
)

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Verify(context.Context, string, string) error {
	f.calls++
	return f.err
}

func (f *fakeVerifier) Enabled() bool { return true }

func TestHumanCheck(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		signedIn  bool
		want      int
		wantCalls int
	}{
		{"accepted", nil, false, http.StatusOK, 1},
		{"rejected", recaptcha.ErrTokenRejected, false, http.StatusForbidden, 1},
		{"verifier down fails open", fmt.Errorf("%w: timeout", recaptcha.ErrVerifierUnavailable), false, http.StatusOK, 1},
		{"staff skip verification", recaptcha.ErrTokenRejected, true, http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVerifier{err: tt.err}
			h := HumanCheck(v, nopLogger{})(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(http.MethodPost, "/api/bookings/request", nil)
			req.Header.Set(RecaptchaTokenHeader, "tok")
			if tt.signedIn {
				req = req.WithContext(WithClaims(req.Context(), &outbound.TokenClaims{UserID: "u-1", Role: "director"}))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, tt.wantCalls, v.calls)
		})
	}
}

func TestHumanCheck_DisabledVerifier(t *testing.T) {
	h := HumanCheck(recaptcha.NewNoopVerifier(), nopLogger{})(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings/request", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
