package logger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Middleware attaches log to every request context, tags it with a request id
// and writes one access line when the handler returns.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		hlog.NewHandler(log),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.RemoteAddrHandler("ip"),
		hlog.AccessHandler(func(r *http.Request, status, size int, took time.Duration) {
			ev := hlog.FromRequest(r).Info()
			if status >= 500 {
				ev = hlog.FromRequest(r).Error()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("took", took).
				Msg("request")
		}),
	}
	return func(next http.Handler) http.Handler {
		for i := len(chain) - 1; i >= 0; i-- {
			next = chain[i](next)
		}
		return next
	}
}

// Recoverer turns a handler panic into a JSON 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			hlog.FromRequest(r).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("handler panic")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   "internal_error",
				"details": fmt.Sprint(rec),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
