// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/openuno/openuno/internal/auth"
	"github.com/openuno/openuno/internal/cache"
	"github.com/openuno/openuno/internal/database"
	"github.com/openuno/openuno/internal/handlers"
	"github.com/openuno/openuno/internal/middleware"
)

func main() {
	auth.Init()

	// Postgres and redis are optional: without them the server runs fully
	// in memory and the boundary writes become no-ops.
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("PG_HOST") != "" {
		database.ConnectDB()
	}
	if err := cache.ConnectRedis(); err != nil {
		log.Printf("redis unavailable, action history disabled: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	mux := http.NewServeMux()

	srv := handlers.NewGameServer(logger)

	mux.Handle("/game/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
