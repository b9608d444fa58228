// Package main starts the JobDesk API server.
package main

import (
	"log"

	"JobDesk-backend/internal/server"
)

// @title JobDesk API
// @version 1.0
// @description Job board backend with applicant accounts and application workflows.
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}
