package main

import (
	"flag"
	"log"

	"parley-chat/config"
	"parley-chat/internal/repository"
	"parley-chat/pkg/database"
)

func main() {
	seed := flag.Bool("seed", false, "seed the database after migrating")
	flag.Parse()

	cfg := config.LoadConfig()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := repository.InitSchema(database.DB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("Schema migration complete")

	if *seed {
		if _, err := database.Seed(database.DB, database.DefaultSeedConfig()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Seeding complete")
	}
}
