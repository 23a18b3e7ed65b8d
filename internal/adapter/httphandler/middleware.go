package httphandler

import (
	"context"
	"mime"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the storefront session id in both directions.
const SessionHeader = "X-Session-ID"

const maxSessionIDLen = 128

type sessionKey struct{}

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// Session puts the request session id into the request context and echoes
// it back. A new id is generated when the header is absent or oversized.
func Session(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(SessionHeader)
		if sid == "" || len(sid) > maxSessionIDLen {
			sid = uuid.NewString()
		}
		w.Header().Set(SessionHeader, sid)

		ctx := context.WithValue(r.Context(), sessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func sessionID(r *http.Request) string {
	sid, ok := r.Context().Value(sessionKey{}).(string)
	if !ok {
		panic("httphandler: Session middleware is not installed") // develop mistake
	}
	return sid
}
