package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/csvlayout/internal/logging"
)

// APIKeyHeader carries the key checked by RequireAPIKey.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests that change state (anything but GET, HEAD
// and OPTIONS) unless they carry one of keys. With no keys configured every
// request passes.
func RequireAPIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 || isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			switch {
			case key == "":
				logging.FromContext(r.Context()).Warn("auth: missing API key", "path", r.URL.Path, "method", r.Method)
				writeJSONError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
			case !validKey(key, keys):
				logging.FromContext(r.Context()).Warn("auth: invalid API key", "path", r.URL.Path, "method", r.Method)
				writeJSONError(w, http.StatusForbidden, "invalid API key", "AUTH002")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func isSafeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

// validKey compares against every key in constant time.
func validKey(key string, keys []string) bool {
	valid := 0
	for _, k := range keys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return valid == 1
}
