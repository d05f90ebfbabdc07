package validation

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAllowPrivate(t *testing.T, v bool) {
	t.Helper()
	prev := AllowPrivateEnabled()
	SetAllowPrivate(v)
	t.Cleanup(func() { SetAllowPrivate(prev) })
}

func withResolver(t *testing.T, ips ...string) {
	t.Helper()
	prev := resolveHost
	resolveHost = func(context.Context, string) ([]net.IP, error) {
		out := make([]net.IP, 0, len(ips))
		for _, s := range ips {
			out = append(out, net.ParseIP(s))
		}
		return out, nil
	}
	t.Cleanup(func() { resolveHost = prev })
}

func TestValidateBaseURL(t *testing.T) {
	withAllowPrivate(t, false)
	withResolver(t, "93.184.216.34")

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "public https", url: "https://cms.example.com"},
		{name: "with port", url: "http://cms.example.com:8080"},
		{name: "empty", url: "", wantErr: "cannot be empty"},
		{name: "ftp", url: "ftp://cms.example.com", wantErr: "scheme"},
		{name: "no host", url: "https://", wantErr: "hostname"},
		{name: "query", url: "https://cms.example.com?x=1", wantErr: "query"},
		{name: "localhost", url: "http://localhost:5000", wantErr: "localhost"},
		{name: "loopback ip", url: "http://127.0.0.1", wantErr: "localhost"},
		{name: "private ip", url: "http://10.1.2.3", wantErr: "private"},
		{name: "metadata", url: "http://169.254.169.254", wantErr: "metadata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateBaseURLAllowPrivate(t *testing.T) {
	withAllowPrivate(t, true)

	assert.NoError(t, ValidateBaseURL("http://localhost:5000"))
	assert.NoError(t, ValidateBaseURL("http://192.168.1.10"))
	assert.Error(t, ValidateBaseURL("http://169.254.169.254"), "metadata stays blocked")
}

func TestValidateBaseURLResolvesToPrivate(t *testing.T) {
	withAllowPrivate(t, false)
	withResolver(t, "10.0.0.5")

	err := ValidateBaseURL("https://intranet.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolves to forbidden IP")
}

func TestValidateBackofficePath(t *testing.T) {
	assert.NoError(t, ValidateBackofficePath(""))
	assert.NoError(t, ValidateBackofficePath("/umbraco"))
	assert.Error(t, ValidateBackofficePath("umbraco"))
	assert.Error(t, ValidateBackofficePath("/umbraco?x"))
}
