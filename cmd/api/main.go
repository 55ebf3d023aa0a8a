package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shiftclock.org/internal/auth"
	"shiftclock.org/internal/httpapi"
	"shiftclock.org/internal/obs"
	"shiftclock.org/internal/perimeter"
	"shiftclock.org/internal/roster"
	"shiftclock.org/internal/shift"
	"shiftclock.org/internal/store/pg"
)

var version = "0.3.0"

func main() {
	_ = godotenv.Load()

	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("SHIFTCLOCK_COMMIT"))

	if err := auth.ValidateSecret(); err != nil {
		log.Fatalf("auth: %v (set SHIFTCLOCK_AUTH_SECRET)", err)
	}

	var (
		db         *sql.DB
		shifts     shift.Service
		perimeters perimeter.Store
		managers   roster.Store
		users      auth.UserStore
	)
	if dsn := os.Getenv("SHIFTCLOCK_PG_DSN"); dsn != "" {
		store, err := pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = store.DB()
		shifts = store
		perimeters = store
		managers = store
		users = store
	} else {
		// no DSN: volatile in-memory stores, fine for local development
		log.Println("SHIFTCLOCK_PG_DSN not set, using in-memory stores")
		shifts = shift.NewInMemory()
		perimeters = perimeter.NewInMemory()
		managers = roster.NewInMemory(os.Getenv("SHIFTCLOCK_BOOTSTRAP_MANAGER"))
		users = auth.NewInMemoryUsers()
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, shifts, perimeters, managers, users)

	addr := os.Getenv("SHIFTCLOCK_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting shiftclock-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
