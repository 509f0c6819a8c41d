package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65:2145", expectedIsLocal: false},
		{addr: "127.23.0.1:35325", expectedIsLocal: false},
		{addr: "172.20.0.1:60102", expectedIsLocal: true},
		{addr: "172.20.0.1:60096", expectedIsLocal: true},
		{addr: "172.200.0.1:60096", expectedIsLocal: true},
		{addr: "172.19.0.1:42452", expectedIsLocal: true},
		{addr: "172.0.0.1:42452", expectedIsLocal: true},
		{addr: "83.12.53.65:214", expectedIsLocal: false},
		{addr: "172.19.0.1:42452", expectedIsLocal: true},
		{addr: "172.0.0.1:352345", expectedIsLocal: true},
		{addr: "111.12.56.65:8080", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr))
	}
}

func TestReadUserIP(t *testing.T) {
	cases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
		expectErr  bool
	}{
		{name: "remote addr with port", remoteAddr: "83.12.53.65:2145", expected: "83.12.53.65"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", expected: "2001:db8::1"},
		{name: "real ip header", headers: map[string]string{"X-Real-Ip": "111.12.56.65"}, remoteAddr: "10.0.0.1:80", expected: "111.12.56.65"},
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "111.12.56.65, 10.0.0.3"}, remoteAddr: "10.0.0.1:80", expected: "111.12.56.65"},
		{name: "localhost", remoteAddr: "127.0.0.1:35325", expected: "localhost"},
		{name: "docker bridge", remoteAddr: "172.19.0.1:42452", expected: "localhost"},
		{name: "garbage", remoteAddr: "not-an-ip", expectErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			ip, err := ReadUserIP(req)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, ip)
		})
	}
}
