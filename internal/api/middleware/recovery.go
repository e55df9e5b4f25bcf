package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/models"
)

// Recovery recovers from panics and returns a 500 error
func Recovery(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						zap.String("error", fmt.Sprintf("%v", err)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("stacktrace", string(debug.Stack())))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)

					json.NewEncoder(w).Encode(models.BaseResponse{
						Success:   false,
						Timestamp: time.Now().UTC(),
						Message:   "Internal server error",
						Error: &models.APIError{
							Code:    models.ErrInternalError,
							Message: "An unexpected error occurred",
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
