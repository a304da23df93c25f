package main

import (
	"flag"
	"log"
	"os"

	"github.com/samedayramps/tiny-church-app/internal/repository/postgres"
)

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if err := postgres.ApplyMigrations(dsn, *dir); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("migrations applied")
}
