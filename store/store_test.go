package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vkinder/models"
)

// Integration tests are opt-in. Set TEST_DB_DSN to a Postgres DSN to run them.
func setupTestStore(t *testing.T) *InteractionStore {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("integration tests are disabled; set TEST_DB_DSN to enable")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, m := range []any{&models.User{}, &models.Favorite{}, &models.BlacklistEntry{}, &models.ViewedProfile{}} {
		if err := db.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	// Start each run clean; FK cascade removes interaction rows.
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	return New(db, zerolog.Nop())
}

func seedUser(t *testing.T, s *InteractionStore, id int64) {
	t.Helper()
	age := 25
	u := models.User{ID: id, FirstName: "Иван", LastName: "Петров", Age: &age, City: "Москва", Sex: 2}
	if err := s.UpsertUser(context.Background(), &u); err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 100)

	age := 26
	updated := models.User{ID: 100, FirstName: "Иван", LastName: "Сидоров", Age: &age, City: "Казань", Sex: 2}
	if err := s.UpsertUser(ctx, &updated); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetUser(ctx, 100)
	if err != nil || got == nil {
		t.Fatalf("get user: %v %v", got, err)
	}
	if got.LastName != "Сидоров" || got.City != "Казань" || got.Age == nil || *got.Age != 26 {
		t.Fatalf("upsert did not refresh fields: %+v", got)
	}
}

func TestAddFavoriteDuplicateReturnsFalse(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 101)

	added, err := s.AddFavorite(ctx, 101, 555, "Анна", "Иванова")
	if err != nil || !added {
		t.Fatalf("first add = (%v,%v), want (true,nil)", added, err)
	}
	added, err = s.AddFavorite(ctx, 101, 555, "Анна", "Иванова")
	if err != nil {
		t.Fatalf("duplicate add must not error: %v", err)
	}
	if added {
		t.Fatal("duplicate add must report false")
	}

	favorites := s.ListFavorites(ctx, 101)
	if len(favorites) != 1 || favorites[0].CandidateID != 555 {
		t.Fatalf("expected exactly one favorite, got %+v", favorites)
	}
}

func TestBlacklistDuplicateStaysTrue(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 102)

	for i := 0; i < 2; i++ {
		ok, err := s.AddToBlacklist(ctx, 102, 777)
		if err != nil || !ok {
			t.Fatalf("blacklist attempt %d = (%v,%v), want (true,nil)", i, ok, err)
		}
	}
	ids := s.ListBlacklist(ctx, 102)
	if len(ids) != 1 || ids[0] != 777 {
		t.Fatalf("expected exactly [777], got %v", ids)
	}
	if !s.IsBlacklisted(ctx, 102, 777) {
		t.Fatal("IsBlacklisted must report true")
	}
	if s.IsBlacklisted(ctx, 102, 778) {
		t.Fatal("IsBlacklisted must report false for unknown pair")
	}
}

func TestMarkViewedIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 103)

	for i := 0; i < 2; i++ {
		ok, err := s.MarkViewed(ctx, 103, 888)
		if err != nil || !ok {
			t.Fatalf("mark viewed attempt %d = (%v,%v), want (true,nil)", i, ok, err)
		}
	}
	ids := s.ListViewed(ctx, 103)
	if len(ids) != 1 || ids[0] != 888 {
		t.Fatalf("expected exactly [888], got %v", ids)
	}
}

func TestFavoriteOrderingAndRemoval(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 104)

	if _, err := s.AddFavorite(ctx, 104, 1, "Первая", "Ф"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond) // distinct created_at for ordering
	if _, err := s.AddFavorite(ctx, 104, 2, "Вторая", "Ф"); err != nil {
		t.Fatal(err)
	}

	favorites := s.ListFavorites(ctx, 104)
	if len(favorites) != 2 || favorites[0].CandidateID != 2 {
		t.Fatalf("favorites must be newest-first, got %+v", favorites)
	}

	if err := s.RemoveFavorite(ctx, 104, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Removing an absent pair is not an error.
	if err := s.RemoveFavorite(ctx, 104, 999); err != nil {
		t.Fatalf("remove of missing pair: %v", err)
	}
	if err := s.ClearFavorites(ctx, 104); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.ListFavorites(ctx, 104); len(got) != 0 {
		t.Fatalf("favorites must be empty after clear, got %+v", got)
	}
}

func TestStatsCounts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 105)

	if _, err := s.AddFavorite(ctx, 105, 11, "А", "Б"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddToBlacklist(ctx, 105, 12); err != nil {
		t.Fatal(err)
	}

	st := s.Stats(ctx, 105)
	if st.FavoriteCount != 1 || st.BlacklistCount != 1 || st.ViewedCount != 0 {
		t.Fatalf("stats = %+v, want {1 1 0}", st)
	}
}

func TestPurgeViewedOlderThan(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 106)

	if _, err := s.MarkViewed(ctx, 106, 21); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkViewed(ctx, 106, 22); err != nil {
		t.Fatal(err)
	}
	// Backdate one row past the cutoff.
	old := time.Now().AddDate(0, 0, -45)
	if err := s.db.Model(&models.ViewedProfile{}).
		Where("user_id = ? AND candidate_id = ?", 106, 21).
		Update("viewed_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	deleted, err := s.PurgeViewedOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	ids := s.ListViewed(ctx, 106)
	if len(ids) != 1 || ids[0] != 22 {
		t.Fatalf("newer row must survive, got %v", ids)
	}
}

func TestUserDeletionCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 107)

	if _, err := s.AddFavorite(ctx, 107, 31, "А", "Б"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddToBlacklist(ctx, 107, 32); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteUser(ctx, 107); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if got := s.ListFavorites(ctx, 107); len(got) != 0 {
		t.Fatalf("favorites must cascade, got %+v", got)
	}
	if got := s.ListBlacklist(ctx, 107); len(got) != 0 {
		t.Fatalf("blacklist must cascade, got %v", got)
	}
}

func TestUpdateUserFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedUser(t, s, 108)

	if ok, err := s.UpdateUserCity(ctx, 108, "Пермь"); err != nil || !ok {
		t.Fatalf("update city = (%v,%v)", ok, err)
	}
	if ok, err := s.UpdateUserAge(ctx, 108, 30); err != nil || !ok {
		t.Fatalf("update age = (%v,%v)", ok, err)
	}
	if ok, err := s.UpdateUserSex(ctx, 108, 1); err != nil || !ok {
		t.Fatalf("update sex = (%v,%v)", ok, err)
	}
	// Unknown user reports false, not an error.
	if ok, err := s.UpdateUserCity(ctx, 99999, "Тула"); err != nil || ok {
		t.Fatalf("update of missing user = (%v,%v), want (false,nil)", ok, err)
	}

	got, err := s.GetUser(ctx, 108)
	if err != nil || got == nil {
		t.Fatalf("get user: %v %v", got, err)
	}
	if got.City != "Пермь" || got.Age == nil || *got.Age != 30 || got.Sex != 1 {
		t.Fatalf("fields not updated: %+v", got)
	}
}
