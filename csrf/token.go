package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
)

// tokenBytes is fixed: the cookie format embeds a 64-hex-char token.
const tokenBytes = 32

// digest retorna o SHA-256 de token‖secret em hex minúsculo.
// Ordem da concatenação importa: token primeiro, depois o secret.
func digest(secret, token string) string {
	sum := sha256.Sum256([]byte(token + secret))
	return hex.EncodeToString(sum[:])
}

// Issue generates a fresh CSRF token bound to secret.
//
// It draws 32 bytes from crypto/rand, hex-encodes them as the token and
// composes the cookie value "token|digest", where the digest is a keyed
// SHA-256 over the token and the secret. The cookie value goes into the
// CSRF cookie; the bare token goes to the client (hidden form field, meta
// tag, SPA endpoint) so it can be submitted back with the next request.
//
// Params:
// - secret: server-held key material; never sent to the client by itself.
//
// Returns:
//   - cookieValue: the "token|digest" string to store in the cookie.
//   - token: the bare 64-char hex token to embed in the page.
//   - err: non-nil only when the secure random source fails; that is an
//     environment error, not a validation failure.
func Issue(secret string) (cookieValue, token string, err error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(b)
	cookieValue = token + "|" + digest(secret, token)
	return cookieValue, token, nil
}

// Verify decides whether a request carries a valid double-submit pair.
//
// The cookie value must parse as "token|digest" (split on the first "|"),
// the submitted value must equal the embedded token, and the embedded
// digest must equal a freshly computed digest over (secret, embedded
// token). Both comparisons run in constant time. Absent inputs are passed
// as empty strings. Any missing, malformed or mismatching input yields
// false; the verdict never distinguishes the failure cause and never
// panics.
//
// Params:
// - secret: the current server secret.
// - cookieValue: the transported cookie value, or "" when absent.
// - submittedValue: the client-echoed token (header/form), or "" when absent.
//
// Returns:
// - true iff both the token and the keyed digest check out.
func Verify(secret, cookieValue, submittedValue string) bool {
	if cookieValue == "" || submittedValue == "" {
		return false
	}
	token, dig, ok := strings.Cut(cookieValue, "|")
	if !ok {
		return false
	}
	tokenMatch := subtle.ConstantTimeCompare([]byte(token), []byte(submittedValue)) == 1
	digestMatch := subtle.ConstantTimeCompare([]byte(dig), []byte(digest(secret, token))) == 1
	return tokenMatch && digestMatch
}

func extractClientToken(r *http.Request, headerName, formField string) string {
	// Header vence
	if h := r.Header.Get(headerName); h != "" {
		return h
	}
	// Depois tenta form (x-www-form-urlencoded / multipart)
	_ = r.ParseForm()
	if v := r.Form.Get(formField); v != "" {
		return v
	}
	return ""
}

// Verifica se a origem informada é "same-site" do host permitido.
func sameSite(originOrRef, allowedHost string) bool {
	u, err := url.Parse(originOrRef)
	if err != nil {
		return false
	}
	// Compara apenas host (pode incluir porta). Opcional: normalizar porta padrão.
	return strings.EqualFold(u.Host, allowedHost)
}
