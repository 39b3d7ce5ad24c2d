package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewio/internal/app"
	"interviewio/internal/config"
	"interviewio/internal/transport/rest"
)

// @title interviewio API
// @version 1.0
// @description Collaborative interview rooms: shared editor, code runs and speech synthesis
// @host localhost:8080
// @BasePath /api
func main() {
	log.Println("started")
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg := config.Load()

	// Load speech config and log model settings
	speechConfig := config.DefaultSpeechConfig()
	log.Printf("Speech Config:")
	log.Printf("  Model:   %s", speechConfig.Model)
	log.Printf("  Voice:   %s", speechConfig.Voice)
	if speechConfig.IsEnabled() {
		log.Println("  API Key: configured ✓")
	} else {
		log.Println("  API Key: NOT SET (/api/ai will fail)")
	}

	a, err := app.New(ctx, cfg, speechConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	// Cross-instance fan-out for the collaboration hub
	go func() {
		if err := a.Relay.Run(ctx, a.Hub); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Relay stopped: %v", err)
		}
	}()
	log.Printf("Collaboration hub started (instance %s)", cfg.InstanceID)

	router := rest.NewRouter(&rest.Container{
		AuthService:   a.AuthService,
		RoomService:   a.RoomService,
		RunService:    a.RunService,
		SpeechService: a.SpeechService,
		Hub:           a.Hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /api/ai")
		log.Println("  POST /api/auth/login")
		log.Println("  POST /api/auth/signup")
		log.Println("  GET  /api/languages")
		log.Println("  POST /api/rooms")
		log.Println("  GET/DELETE /api/rooms/{code}")
		log.Println("  POST /api/rooms/{code}/join")
		log.Println("  PUT  /api/rooms/{code}/language")
		log.Println("  POST /api/rooms/{code}/run")
		log.Println("  GET  /api/rooms/{code}/output")
		log.Println("  GET  /api/rooms/{code}/runs")
		log.Println("  WS   /api/ws/rooms/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
