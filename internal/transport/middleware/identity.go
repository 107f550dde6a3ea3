package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/pkg/ctxutil"
)

// userIDHeader carries the acting user's id, set by the upstream
// gateway. Validating that identity is the gateway's concern.
const userIDHeader = "X-User-ID"

// Identity extracts the gateway-supplied user id into the context.
// Requests without the header stay anonymous; per-user endpoints reject
// those themselves. A malformed id is a client error.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid user id header", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), id)))
	})
}
