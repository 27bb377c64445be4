// Package csrf provides a lightweight signed double-submit-cookie CSRF protection middleware.
package csrf

import "net/http"

type Config struct {
	// Secret keys the token digest. It stays on the server and must be the
	// same for the issuing and the verifying request. An empty secret is
	// accepted but removes the forgery protection of the digest.
	Secret string

	// Cookie
	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite
	CookieMaxAge   int // in seconds
	CookieHTTPOnly bool

	// Token transport
	HeaderName string // e.g.: "X-CSRF-Token"
	FormField  string // e.g.: "csrf_token"

	// Extra security
	EnforceOriginCheck bool
	AllowedOrigin      string // if empty, uses r.Host
}

type Protector struct {
	cfg Config
}

func New(cfg Config) *Protector {
	// reasonable defaults
	if cfg.CookieName == "" {
		cfg.CookieName = "csrf_token"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.FormField == "" {
		cfg.FormField = "csrf_token"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	// modern web security: SameSite=Lax is a good baseline
	if cfg.CookieSameSite == 0 {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	return &Protector{cfg: cfg}
}
