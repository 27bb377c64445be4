package csrf

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Methods that require CSRF protection
var unsafeMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Protect wraps the given next http.Handler and enforces CSRF protection.
//
// Behavior:
//   - For "safe" methods (GET/HEAD/OPTIONS): ensures a signed token cookie
//     exists and injects the bare token into the request context, then calls
//     next.
//   - For "unsafe" methods (POST/PUT/PATCH/DELETE): optionally validates
//     Origin/Referer (when EnforceOriginCheck is true), extracts the client
//     token from header or form, and requires the request cookie plus the
//     client token to pass Verify against the configured secret before
//     calling next.
//
// Params:
// - next: downstream handler to be executed after CSRF checks pass.
//
// Returns:
// - An http.Handler that performs the CSRF logic before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := p.cfg

		// the cookie the request actually carried, before any re-issue
		requestCookie := ""
		if c, err := r.Cookie(cfg.CookieName); err == nil {
			requestCookie = c.Value
		}

		// 1) always ensure a signed cookie exists for the next request
		token, err := p.ensureCookieToken(w, requestCookie)
		if err != nil {
			http.Error(w, "failed to set CSRF cookie", http.StatusInternalServerError)
			return
		}

		// inject the bare token into the request context for downstream handlers
		r = r.WithContext(contextWithToken(r.Context(), token))

		// 2) for safe methods, just continue
		if !unsafeMethods[r.Method] {
			next.ServeHTTP(w, r)
			return
		}

		// 3) Origin/Referer validation (if enabled)
		if cfg.EnforceOriginCheck {
			if err := validateOriginOrReferer(r, cfg.AllowedOrigin); err != nil {
				http.Error(w, "invalid origin", http.StatusForbidden)
				return
			}
		}

		// 4) extract client-provided token (header or form)
		clientToken := extractClientToken(r, cfg.HeaderName, cfg.FormField)
		if clientToken == "" {
			http.Error(w, "missing CSRF token", http.StatusForbidden)
			return
		}

		// 5) verify the double-submit pair against the request's own cookie
		if !Verify(cfg.Secret, requestCookie, clientToken) {
			http.Error(w, "bad CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ensureCookieToken makes sure the response carries a usable signed cookie.
// When the incoming cookie value still verifies against the current secret
// (same structure, matching digest), its embedded token is reused. A missing,
// malformed or stale cookie, including one signed under a rotated-out secret,
// triggers a fresh issuance and a Set-Cookie on the response.
//
// Params:
// - w: response writer used to set the cookie when needed.
// - requestCookie: the raw cookie value from the incoming request, or "".
//
// Returns:
// - the bare token on success; empty string and error if issuance fails.
func (p *Protector) ensureCookieToken(w http.ResponseWriter, requestCookie string) (string, error) {
	cfg := p.cfg

	if tok, ok := cookieToken(cfg.Secret, requestCookie); ok {
		return tok, nil
	}

	cookieValue, token, err := Issue(cfg.Secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    cookieValue,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.CookieMaxAge,
		SameSite: cfg.CookieSameSite,
		Secure:   cfg.CookieSecure,
		HttpOnly: cfg.CookieHTTPOnly,
	})

	return token, nil
}

// cookieToken extracts the embedded token from a "token|digest" cookie value,
// accepting it only when the digest verifies against secret.
func cookieToken(secret, cookieValue string) (string, bool) {
	token, _, found := strings.Cut(cookieValue, "|")
	if !found {
		return "", false
	}
	if !Verify(secret, cookieValue, token) {
		return "", false
	}
	return token, true
}

// TokenFromContext returns the CSRF token stored in ctx, if present.
//
// Params:
// - ctx: context potentially containing a token set by the middleware.
//
// Returns:
// - token (string) and a boolean indicating whether a token was found.
func TokenFromContext(ctx context.Context) (string, bool) {
	return tokenFromContext(ctx)
}

// TokenHandler returns an HTTP handler that writes the current CSRF token.
// This is useful for SPAs to fetch the token and attach it to subsequent requests.
//
// Returns:
// - http.Handler that responds with the token in the response body (text/plain).
func (p *Protector) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := TokenFromContext(r.Context()); ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(tok))
			return
		}
		http.Error(w, "no token", http.StatusInternalServerError)
	})
}

// validateOriginOrReferer checks whether the request is same-site according to
// the allowed host policy. When allowed is empty, it falls back to r.Host.
// It prefers the Origin header; if empty, it falls back to Referer.
//
// Params:
//   - r: the incoming request containing Origin/Referer headers.
//   - allowed: the allowed host (domain[:port]) to be considered same-site;
//     if empty, r.Host is used.
//
// Returns:
// - nil when origin/referrer is acceptable; otherwise an error describing the issue.
func validateOriginOrReferer(r *http.Request, allowed string) error {
	// if allowed is empty, use the current request host as baseline
	host := allowed
	if host == "" {
		host = r.Host
	}

	// Prefer Origin; if empty, use Referer.
	origin := r.Header.Get("Origin")
	ref := r.Header.Get("Referer")

	if origin == "" && ref == "" {
		return errors.New("no origin/referer")
	}
	if origin != "" && !sameSite(origin, host) {
		return errors.New("bad origin")
	}
	if origin == "" && ref != "" && !sameSite(ref, host) {
		return errors.New("bad referer")
	}
	return nil
}
