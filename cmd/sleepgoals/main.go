package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	adapthttp "sleepgoals/internal/adapter/http"
	"sleepgoals/internal/adapter/memory"
	"sleepgoals/internal/adapter/postgres"
	"sleepgoals/internal/app"
	"sleepgoals/internal/domain"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	var repo domain.GoalRepository
	var store adapthttp.Pinger

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		repo, store = db, db
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		mem := memory.New()
		repo, store = mem, mem
	}

	goalSvc := app.NewGoalService(repo)

	adapthttp.RegisterMetrics()
	h := adapthttp.New(goalSvc, store, webDir).Handler()

	srv := &http.Server{Addr: addr, Handler: h}
	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
