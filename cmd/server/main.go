package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	api "tetrisengine/internal/api/handlers"
	auth "tetrisengine/internal/api/middleware"
	"tetrisengine/internal/hosting"
	"tetrisengine/internal/replaystore"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: could not load .env file (fine in production): %v", err)
		}
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	store, err := replaystore.NewStore(databaseURL)
	if err != nil {
		log.Fatalf("failed to initialize replay store: %v", err)
	}
	defer store.Close()

	manager := hosting.NewManager(16*time.Millisecond, store)

	roomHandler := api.NewRoomHandler(manager)
	replayHandler := api.NewReplayHandler(store)

	r := mux.NewRouter()
	r.Use(auth.CORSHandler())

	r.HandleFunc("/api/replays/{replayID}", replayHandler.GetReplay).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/scoreboard", replayHandler.Scoreboard).Methods("GET", "OPTIONS")

	gameRouter := r.PathPrefix("/api/rooms").Subrouter()
	gameRouter.Use(auth.AuthMiddleware)
	gameRouter.Use(auth.CORSHandler())

	gameRouter.HandleFunc("", roomHandler.CreateRoom).Methods("POST", "OPTIONS")
	gameRouter.HandleFunc("/{roomID}", roomHandler.DeleteRoom).Methods("DELETE", "OPTIONS")
	gameRouter.HandleFunc("/{roomID}/ws", roomHandler.WebSocketHandler).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	log.Printf("listening on port %s", port)

	<-quit
	log.Println("shutting down...")

	manager.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	log.Println("server shut down cleanly")
}
