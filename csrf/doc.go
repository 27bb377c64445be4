// Package csrf provides lightweight CSRF protection for Go net/http servers
// using a signed double-submit cookie.
//
// How it works
//   - Issue draws a 256-bit random token, renders it as 64 hex characters and
//     binds it to a server-held secret with a keyed SHA-256 digest. The cookie
//     stores "token|digest"; the page (or a SPA endpoint) receives the bare
//     token so the client can echo it back in a header or form field.
//   - Verify recomputes the digest from the cookie's embedded token and the
//     current secret, then requires the submitted value to match the embedded
//     token and the embedded digest to match the recomputed one. Comparisons
//     run in constant time; any missing, malformed or mismatching input is
//     simply false. An attacker who cannot read the victim's cookie cannot
//     produce a matching pair, and one who cannot read the secret cannot
//     forge a digest for a token of their choosing.
//   - The Protect middleware wires this into the request cycle: safe methods
//     (GET, HEAD, OPTIONS) ensure the cookie exists and expose the bare token
//     via TokenFromContext; unsafe methods (POST, PUT, PATCH, DELETE) pass the
//     request cookie and the client-provided value to Verify, optionally after
//     an Origin/Referer same-site check.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - Secret (the server key; keep it out of the client's reach)
//   - CookieName, CookiePath, CookieDomain, CookieSecure, CookieSameSite, CookieMaxAge
//   - HeaderName (default: "X-CSRF-Token")
//   - FormField (default: "csrf_token")
//   - EnforceOriginCheck and AllowedOrigin (empty means use the request host)
//
// Typical usage
//
//	p := csrf.New(csrf.Config{ Secret: secret, EnforceOriginCheck: true })
//	// Protect an http.Handler (router, mux, etc.)
//	protected := p.Protect(appMux)
//	http.ListenAndServe(":8080", protected)
//
// In handlers, you can read the token from context for rendering or APIs:
//
//	if tok, ok := csrf.TokenFromContext(r.Context()); ok {
//	    // use tok in templates or return it from an endpoint
//	}
//
// For SPAs, expose a small endpoint that returns the current token:
//
//	r.Get("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
//	    p.TokenHandler().ServeHTTP(w, r)
//	})
//
// Issue and Verify are also usable directly, without the middleware, when the
// host application handles cookie transport itself. Both are pure functions of
// their inputs; the package keeps no state, so secret rotation is just a
// matter of passing the new value (tokens signed under the old secret fail
// verification and are re-issued).
package csrf
