package ports

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
)

// NewRecoverMiddleware converts panics in downstream handlers into a
// generic server error response instead of crashing the process.
func NewRecoverMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				ctx := r.Context()
				reporting.Report(ctx, fmt.Errorf("panic while handling request: %v", rec))

				response, err := json.Marshal(errorResponse{
					Success: false,
					Error:   "Internal server error",
					Details: fmt.Sprintf("%v", rec),
				})
				if err != nil {
					response = []byte(`{"success":false,"error":"Internal server error"}`)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write(response)
			}()

			next(w, r)
		}
	}
}
