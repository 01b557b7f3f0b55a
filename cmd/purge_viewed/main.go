// Command purge_viewed deletes viewed-profile rows older than the retention
// window. Run it from cron or by hand; the server never purges on its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vkinder/logging"
	"vkinder/store"
)

func main() {
	days := flag.Int("days", 30, "delete viewed rows older than this many days")
	flag.Parse()
	if *days < 1 {
		fmt.Println("usage: go run ./cmd/purge_viewed -days <n>")
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

	s := store.New(db, logging.Init("info", "console"))
	deleted, err := s.PurgeViewedOlderThan(context.Background(), *days)
	if err != nil {
		log.Fatalf("purge failed: %v", err)
	}
	fmt.Printf("deleted %d viewed rows older than %d days\n", deleted, *days)
}
