package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"slotswapper/internal/api"
	"slotswapper/internal/auth"
	"slotswapper/internal/db"
	"slotswapper/internal/repository"
	"slotswapper/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	slotRepo := repository.NewSlotRepository(database)
	swapRepo := repository.NewSwapRepository(database)
	jobRepo := repository.NewJobRepository(database)

	authSvc := service.NewAuthService(userRepo, jwtSecret)
	slotSvc := service.NewSlotService(slotRepo)
	swapSvc := service.NewSwapService(swapRepo, slotRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	slotHandler := api.NewSlotHandler(slotSvc)
	swapHandler := api.NewSwapHandler(swapSvc)

	r := mux.NewRouter()

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	}).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	events := r.PathPrefix("/api/events").Subrouter()
	events.Use(auth.Middleware(jwtSecret))
	events.HandleFunc("", slotHandler.ListSlots).Methods("GET")
	events.HandleFunc("", slotHandler.CreateSlot).Methods("POST")
	events.HandleFunc("/{id}", slotHandler.GetSlot).Methods("GET")
	events.HandleFunc("/{id}", slotHandler.UpdateSlot).Methods("PUT")
	events.HandleFunc("/{id}", slotHandler.DeleteSlot).Methods("DELETE")
	events.HandleFunc("/{id}/status", slotHandler.UpdateSlotStatus).Methods("PATCH")

	swaps := r.PathPrefix("/api/swaps").Subrouter()
	swaps.Use(auth.Middleware(jwtSecret))
	swaps.HandleFunc("/swappable-slots", swapHandler.ListSwappableSlots).Methods("GET")
	swaps.HandleFunc("/swap-request", swapHandler.CreateSwapRequest).Methods("POST")
	swaps.HandleFunc("/swap-response/{id}", swapHandler.RespondToSwapRequest).Methods("POST")
	swaps.HandleFunc("/my-requests", swapHandler.MyRequests).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		if err := jobSvc.ReleaseExpiredListings(); err != nil {
			log.Printf("%v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule listing sweeper: %v", err)
	}
	c.Start()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
