package httpserver

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"
)

// StartHTTP serves the bot's health endpoints on the default mux (webhook
// mode registers its handler there too). db may be nil when the bot runs
// without a world cache.
func StartHTTP(addr string, db *sql.DB) error {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("marble world bot"))
	})
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
