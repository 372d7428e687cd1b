package middleware

import (
	"net/http"
	"slices"
)

// Content security policies.
const (
	// APIContentSecurityPolicy forbids everything; JSON responses load nothing.
	APIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

	// FrontendContentSecurityPolicy lets the SPA load its own assets and
	// play radio streams from any HTTP(S) host.
	FrontendContentSecurityPolicy = "default-src 'self'; img-src 'self' data:; media-src 'self' https: http:; " +
		"connect-src 'self'; object-src 'none'; base-uri 'self'; frame-ancestors 'none'"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
	// ContentSecurityPolicy defaults to APIContentSecurityPolicy.
	ContentSecurityPolicy string
	// CacheControl is set when non-empty.
	CacheControl string
}

// APISecurityConfig returns the header set for /api routes.
func APISecurityConfig(isDevelopment bool) SecurityConfig {
	return SecurityConfig{
		IsDevelopment:         isDevelopment,
		ContentSecurityPolicy: APIContentSecurityPolicy,
		CacheControl:          "no-store",
	}
}

// FrontendSecurityConfig returns the header set for the static frontend.
// Cache headers are left to the file server.
func FrontendSecurityConfig(isDevelopment bool) SecurityConfig {
	return SecurityConfig{
		IsDevelopment:         isDevelopment,
		ContentSecurityPolicy: FrontendContentSecurityPolicy,
	}
}

// Security sets a fixed set of response headers before the handler runs:
// nosniff, frame denial, referrer and permissions policies, COOP, the
// configured CSP and Cache-Control, and HSTS outside development.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	headers := securityHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, values := range headers {
				h[name] = slices.Clone(values)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaders(cfg SecurityConfig) http.Header {
	csp := cfg.ContentSecurityPolicy
	if csp == "" {
		csp = APIContentSecurityPolicy
	}

	h := http.Header{}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	// Legacy XSS auditor off; CSP replaces it.
	h.Set("X-XSS-Protection", "0")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Content-Security-Policy", csp)
	h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	if !cfg.IsDevelopment {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
	if cfg.CacheControl != "" {
		h.Set("Cache-Control", cfg.CacheControl)
	}
	return h
}

// MaxBodySize returns a middleware that limits request body size.
// Bodies declared larger than maxBytes are rejected up front; others are
// wrapped so that reading past the limit fails.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
