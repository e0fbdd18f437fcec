package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCIDRs(t *testing.T) {
	nets, err := ParseCIDRs([]string{"10.0.0.0/8", "127.0.0.1", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, "127.0.0.1/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())

	_, err = ParseCIDRs([]string{"not-a-cidr"})
	assert.ErrorContains(t, err, "not-a-cidr")
}

func TestRegisterPprof_Allowlist(t *testing.T) {
	nets, err := ParseCIDRs([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterPprof(r, nets, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{name: "inside range", remoteAddr: "10.1.2.3:5555", want: http.StatusOK},
		{name: "outside range", remoteAddr: "192.168.1.1:5555", want: http.StatusForbidden},
		{name: "unparseable address", remoteAddr: "garbage", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
