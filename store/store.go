// Package store persists per-user interaction state (favorites, blacklist,
// viewed history) in Postgres. Duplicate interactions are resolved by the
// database's unique constraints through explicit ON CONFLICT clauses, so a
// concurrent insert race is settled by the store: exactly one insert wins and
// the other observes the duplicate outcome.
//
// Error contract: write operations return an error so callers can decide on
// user-visible messaging; read operations are best-effort and degrade to
// empty or zero results on storage failure (logged, never propagated).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vkinder/models"
)

// Stats aggregates a user's interaction counts.
type Stats struct {
	FavoriteCount  int64 `json:"favorite_count"`
	BlacklistCount int64 `json:"blacklist_count"`
	ViewedCount    int64 `json:"viewed_count"`
}

// InteractionStore wraps a gorm handle. Every method commits independently
// (autocommit); multi-call sequences are not atomic across calls.
type InteractionStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *InteractionStore {
	return &InteractionStore{db: db, log: log}
}

// UpsertUser inserts the profile or refreshes all mutable fields by id.
// Idempotent; repeated syncs are last-write-wins.
func (s *InteractionStore) UpsertUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "age", "city", "country", "sex", "updated_at",
		}),
	}).Create(u).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", u.ID).Msg("upsert user failed")
		return err
	}
	return nil
}

// GetUser returns the stored profile, or (nil, nil) when the user is unknown.
func (s *InteractionStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes the profile; interaction rows cascade at the database.
func (s *InteractionStore) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// UpdateUserSex, UpdateUserAge and UpdateUserCity refresh a single mutable
// field. Each reports whether the row existed.

func (s *InteractionStore) UpdateUserSex(ctx context.Context, id int64, sex int) (bool, error) {
	return s.updateUserField(ctx, id, map[string]any{"sex": sex})
}

func (s *InteractionStore) UpdateUserAge(ctx context.Context, id int64, age int) (bool, error) {
	return s.updateUserField(ctx, id, map[string]any{"age": age})
}

func (s *InteractionStore) UpdateUserCity(ctx context.Context, id int64, city string) (bool, error) {
	return s.updateUserField(ctx, id, map[string]any{"city": city})
}

func (s *InteractionStore) updateUserField(ctx context.Context, id int64, fields map[string]any) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddFavorite inserts the pair and reports false when it already existed.
// The duplicate case is expected caller-actionable information, not an error.
func (s *InteractionStore) AddFavorite(ctx context.Context, userID, candidateID int64, firstName, lastName string) (bool, error) {
	fav := models.Favorite{
		UserID:      userID,
		CandidateID: candidateID,
		FirstName:   firstName,
		LastName:    lastName,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "candidate_id"}},
		DoNothing: true,
	}).Create(&fav)
	if res.Error != nil {
		s.log.Error().Err(res.Error).Int64("user_id", userID).Int64("candidate_id", candidateID).Msg("add favorite failed")
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddToBlacklist is insert-or-ignore: once the row exists the call succeeded,
// whether or not this call created it. Unlike AddFavorite, the duplicate case
// carries no information the caller can act on.
func (s *InteractionStore) AddToBlacklist(ctx context.Context, userID, candidateID int64) (bool, error) {
	entry := models.BlacklistEntry{UserID: userID, CandidateID: candidateID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "candidate_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Int64("candidate_id", candidateID).Msg("add to blacklist failed")
		return false, err
	}
	return true, nil
}

// MarkViewed is insert-or-ignore with the same idempotent-success semantics
// as AddToBlacklist.
func (s *InteractionStore) MarkViewed(ctx context.Context, userID, candidateID int64) (bool, error) {
	row := models.ViewedProfile{UserID: userID, CandidateID: candidateID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "candidate_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Int64("candidate_id", candidateID).Msg("mark viewed failed")
		return false, err
	}
	return true, nil
}

// ListFavorites returns the user's favorites newest-first. Best-effort: a
// storage failure is logged and yields an empty slice.
func (s *InteractionStore) ListFavorites(ctx context.Context, userID int64) []models.Favorite {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("list favorites failed")
		return []models.Favorite{}
	}
	return favorites
}

// ListBlacklist returns the blacklisted candidate ids. Unordered, best-effort.
func (s *InteractionStore) ListBlacklist(ctx context.Context, userID int64) []int64 {
	return s.candidateIDs(ctx, &models.BlacklistEntry{}, userID, "list blacklist failed")
}

// ListViewed returns the already-shown candidate ids. Unordered, best-effort.
func (s *InteractionStore) ListViewed(ctx context.Context, userID int64) []int64 {
	return s.candidateIDs(ctx, &models.ViewedProfile{}, userID, "list viewed failed")
}

func (s *InteractionStore) candidateIDs(ctx context.Context, model any, userID int64, failMsg string) []int64 {
	var ids []int64
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Pluck("candidate_id", &ids).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg(failMsg)
		return []int64{}
	}
	return ids
}

// RemoveFavorite deletes one favorite. Succeeds even when nothing matched.
func (s *InteractionStore) RemoveFavorite(ctx context.Context, userID, candidateID int64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND candidate_id = ?", userID, candidateID).
		Delete(&models.Favorite{}).Error
}

// ClearFavorites deletes all of a user's favorites.
func (s *InteractionStore) ClearFavorites(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Favorite{}).Error
}

// IsFavorited reports whether the pair exists. False on storage failure.
func (s *InteractionStore) IsFavorited(ctx context.Context, userID, candidateID int64) bool {
	return s.pairExists(ctx, &models.Favorite{}, userID, candidateID)
}

// IsBlacklisted reports whether the pair exists. False on storage failure.
func (s *InteractionStore) IsBlacklisted(ctx context.Context, userID, candidateID int64) bool {
	return s.pairExists(ctx, &models.BlacklistEntry{}, userID, candidateID)
}

func (s *InteractionStore) pairExists(ctx context.Context, model any, userID, candidateID int64) bool {
	var count int64
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND candidate_id = ?", userID, candidateID).
		Count(&count).Error
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Int64("candidate_id", candidateID).Msg("existence check failed")
		return false
	}
	return count > 0
}

// Stats returns the user's interaction counts. Best-effort: any failure
// yields all zeros rather than an error; this read path is non-critical.
func (s *InteractionStore) Stats(ctx context.Context, userID int64) Stats {
	var st Stats
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Favorite{}, &st.FavoriteCount},
		{&models.BlacklistEntry{}, &st.BlacklistCount},
		{&models.ViewedProfile{}, &st.ViewedCount},
	}
	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(c.model).
			Where("user_id = ?", userID).
			Count(c.dest).Error
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("stats query failed")
			return Stats{}
		}
	}
	return st
}

// PurgeViewedOlderThan bulk-deletes viewed rows past the retention cutoff and
// returns how many were removed.
func (s *InteractionStore) PurgeViewedOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := s.db.WithContext(ctx).
		Where("viewed_at < ?", cutoff).
		Delete(&models.ViewedProfile{})
	if res.Error != nil {
		s.log.Error().Err(res.Error).Int("days", days).Msg("viewed purge failed")
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
