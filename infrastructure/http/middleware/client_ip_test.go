package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTrustedProxies(t *testing.T, entries ...string) {
	t.Helper()
	require.NoError(t, TrustProxies(entries))
	t.Cleanup(func() { _ = TrustProxies(nil) })
}

func TestClientIP_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	withTrustedProxies(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	req.Header.Set("X-Real-IP", "5.6.7.8")
	assert.Equal(t, "203.0.113.7", ClientIP(req), "spoofed headers must not change the key")
}

func TestClientIP_TrustedProxy(t *testing.T) {
	withTrustedProxies(t, "10.0.0.0/8", "192.168.1.5")

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{name: "no headers", remoteAddr: "192.168.1.5:40000", want: "192.168.1.5"},
		{name: "real ip", remoteAddr: "192.168.1.5:40000", realIP: "172.16.0.9", want: "172.16.0.9"},
		{name: "forwarded wins over real ip", remoteAddr: "10.0.0.2:1234", xff: "41.90.1.1", realIP: "172.16.0.9", want: "41.90.1.1"},
		{name: "trusted hops skipped", remoteAddr: "10.0.0.2:1234", xff: "41.90.1.1, 10.0.0.1", want: "41.90.1.1"},
		{name: "client prepended entry ignored", remoteAddr: "10.0.0.2:1234", xff: "6.6.6.6, 41.90.1.1, 10.0.0.1", want: "41.90.1.1"},
		{name: "garbage hop stops walk", remoteAddr: "10.0.0.2:1234", xff: "41.90.1.1, not-an-ip", want: "10.0.0.2"},
		{name: "all hops trusted", remoteAddr: "10.0.0.2:1234", xff: "10.0.0.9", want: "10.0.0.2"},
		{name: "untrusted peer", remoteAddr: "8.8.8.8:53", xff: "41.90.1.1", want: "8.8.8.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestTrustProxies_RejectsInvalidEntries(t *testing.T) {
	t.Cleanup(func() { _ = TrustProxies(nil) })

	assert.Error(t, TrustProxies([]string{"10.0.0.0/99"}))
	assert.Error(t, TrustProxies([]string{"proxy.internal"}))
	assert.NoError(t, TrustProxies([]string{"::1", "fd00::/8"}))
}
