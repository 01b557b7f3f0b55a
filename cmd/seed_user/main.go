// Command seed_user upserts a requester profile straight into the database,
// bypassing the VK sync. Useful for local development and integration-test
// fixtures.
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
	"vkinder/models"
	"vkinder/store"
)

func main() {
	id := flag.Int64("id", 0, "platform user id (required)")
	firstName := flag.String("first", "", "first name (required)")
	lastName := flag.String("last", "", "last name (required)")
	age := flag.Int("age", 0, "age, 0 leaves it unknown")
	city := flag.String("city", "", "city name")
	country := flag.String("country", "", "country name")
	sex := flag.Int("sex", 0, "0 unknown, 1 female, 2 male")
	flag.Parse()

	if *id <= 0 || *firstName == "" || *lastName == "" {
		fmt.Println("usage: go run ./cmd/seed_user -id <n> -first <name> -last <name> [-age n] [-city s] [-sex 0|1|2]")
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

	user := models.User{
		ID:        *id,
		FirstName: *firstName,
		LastName:  *lastName,
		City:      *city,
		Country:   *country,
		Sex:       *sex,
	}
	if *age > 0 {
		user.Age = age
	}

	s := store.New(db, logging.Init("info", "console"))
	if err := s.UpsertUser(context.Background(), &user); err != nil {
		log.Fatalf("failed to upsert user: %v", err)
	}
	fmt.Printf("upserted user %d (%s %s)\n", user.ID, user.FirstName, user.LastName)
}
