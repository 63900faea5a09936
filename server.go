package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Port       int
	DB         *DB
	Translator Translator
	Reporter   *ReportService
	DataPath   string
}

// StartServer initializes and starts the HTTP server
func StartServer(config ServerConfig) error {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	// API handlers (JSON responses)
	apiHandler := NewAPIHandler(config.DB, config.Translator, config.Reporter, config.DataPath)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", apiHandler.Ask)
		r.Get("/schema", apiHandler.Schema)
		r.Get("/pokemon/{dexnum}", apiHandler.GetPokemon)
		r.Get("/pokemon/{dexnum}/image", apiHandler.GetPokemonImage)
		r.Post("/party", apiHandler.AddToParty)
		r.Get("/party/{userID}", apiHandler.GetParty)
		r.Post("/report", apiHandler.Report)
	})

	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("Starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, r)
}
