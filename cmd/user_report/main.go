// Command user_report prints one user's interaction summary: stored profile,
// counts, and the favorites list newest-first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vkinder/logging"
	"vkinder/store"
)

func main() {
	id := flag.Int64("id", 0, "platform user id (required)")
	list := flag.Bool("list", false, "also list favorites")
	flag.Parse()
	if *id <= 0 {
		fmt.Println("usage: go run ./cmd/user_report -id <n> [-list]")
		os.Exit(2)
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	ctx := context.Background()
	s := store.New(db, logging.Init("warn", "console"))

	user, err := s.GetUser(ctx, *id)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if user == nil {
		log.Fatalf("user %d not found", *id)
	}

	stats := s.Stats(ctx, *id)
	fmt.Printf("Report for user=%d (%s %s, %s):\n", user.ID, user.FirstName, user.LastName, user.City)
	fmt.Printf("  favorites=%d blacklist=%d viewed=%d\n",
		stats.FavoriteCount, stats.BlacklistCount, stats.ViewedCount)

	if *list {
		for _, f := range s.ListFavorites(ctx, *id) {
			fmt.Printf("%d|%s %s|%s\n", f.CandidateID, f.FirstName, f.LastName, f.CreatedAt.Format(time.RFC3339))
		}
	}
}
