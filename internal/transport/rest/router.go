package rest

import (
	"net/http"
	"os"

	"interviewio/internal/collab"
	"interviewio/internal/service"
	"interviewio/internal/transport/rest/handler"
	"interviewio/internal/transport/rest/middleware"
	"interviewio/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	RoomService   *service.RoomService
	RunService    *service.RunService
	SpeechService *service.SpeechService
	Hub           *collab.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	speechHandler := handler.NewSpeechHandler(c.SpeechService)
	roomHandler := handler.NewRoomHandler(c.RoomService, c.Hub)
	runHandler := handler.NewRunHandler(c.RunService)
	wsHandler := ws.NewHandler(c.Hub, c.AuthService, c.RoomService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/ai", speechHandler.Synthesize).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	api.HandleFunc("/languages", roomHandler.Languages).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	api.HandleFunc("/ws/rooms/{code}", wsHandler.RoomWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Participant routes (token must belong to the room)
	participantRoutes := api.NewRoute().Subrouter()
	participantRoutes.Use(authMW.RequireParticipant)

	participantRoutes.HandleFunc("/rooms/{code}", roomHandler.Close).Methods("DELETE", "OPTIONS")
	participantRoutes.HandleFunc("/rooms/{code}/language", roomHandler.SetLanguage).Methods("PUT", "OPTIONS")
	participantRoutes.HandleFunc("/rooms/{code}/run", runHandler.Run).Methods("POST", "OPTIONS")
	participantRoutes.HandleFunc("/rooms/{code}/output", runHandler.Output).Methods("GET", "OPTIONS")
	participantRoutes.HandleFunc("/rooms/{code}/runs", runHandler.History).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
