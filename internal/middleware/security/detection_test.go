package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name string
		req  func() *http.Request
		want bool
	}{
		{
			name: "ordinary API request",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
				r.Header.Set("User-Agent", "curl/8.0")
				return r
			},
			want: false,
		},
		{
			name: "dotfile path",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/.env", nil)
			},
			want: true,
		},
		{
			name: "code eval in query",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/dashboard?q=eval(document)", nil)
			},
			want: true,
		},
		{
			name: "scanner user agent",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
				r.Header.Set("User-Agent", "sqlmap/1.7")
				return r
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			if got := d.DetectSuspiciousRequest(tt.req()); got != tt.want {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequestCountsMetric(t *testing.T) {
	d := NewDetector()
	d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/.env", nil))
	d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/wp-admin/login", nil))

	if got := d.GetMetrics().SuspiciousRequests; got != 2 {
		t.Errorf("suspicious requests = %d, want 2", got)
	}
}

func TestExtractClientIPHonorsTrustedProxy(t *testing.T) {
	d := NewDetector()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:4123"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.5")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Errorf("forwarded IP = %q, want 203.0.113.9", got)
	}

	// A direct connection from outside the trusted ranges keeps its own IP.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:4123"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := d.ExtractClientIP(r); got != "198.51.100.7" {
		t.Errorf("untrusted source IP = %q, want 198.51.100.7", got)
	}
}

func TestExtractClientIPCountsInvalid(t *testing.T) {
	d := NewDetector()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "not-an-address:80"

	if got := d.ExtractClientIP(r); got != "not-an-address" {
		t.Errorf("fallback IP = %q", got)
	}
	if got := d.GetMetrics().InvalidIPAttempts; got != 1 {
		t.Errorf("invalid IP attempts = %d, want 1", got)
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("100.64.0.0/10"); err != nil {
		t.Fatalf("AddTrustedProxy: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "100.64.0.1:9000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Errorf("forwarded IP = %q, want 203.0.113.9", got)
	}

	if err := d.AddTrustedProxy("not a cidr"); err == nil {
		t.Error("expected error for malformed CIDR")
	}
}
