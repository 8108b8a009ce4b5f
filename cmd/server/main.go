package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"rea-scraper/internal/api"
	"rea-scraper/internal/db"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	dbPath := flag.String("db", "", "Path to SQLite database")
	flag.Parse()

	if *dbPath == "" {
		cwd, _ := os.Getwd()
		*dbPath = filepath.Join(cwd, "data", "rea-scraper.db")
	}

	log.Printf("Using database: %s", *dbPath)

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	router := api.NewRouter(database)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
