package models

import "time"

// Favorite links a requester to a candidate they chose to keep. First and
// last name are a snapshot taken at favoriting time; they are intentionally
// not refreshed when the candidate later edits their profile.
type Favorite struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	UserID      int64  `gorm:"not null;uniqueIndex:idx_favorites_user_candidate;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CandidateID int64  `gorm:"not null;uniqueIndex:idx_favorites_user_candidate" json:"candidate_id"`
	FirstName   string `gorm:"size:100;not null" json:"first_name"`
	LastName    string `gorm:"size:100;not null" json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlacklistEntry marks a candidate the requester never wants surfaced again.
type BlacklistEntry struct {
	ID          uint  `gorm:"primaryKey" json:"-"`
	UserID      int64 `gorm:"not null;uniqueIndex:idx_blacklist_user_candidate;index" json:"user_id"`
	User        User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CandidateID int64 `gorm:"not null;uniqueIndex:idx_blacklist_user_candidate" json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ViewedProfile records that a candidate was already shown to the requester.
// Rows age out only through the explicit retention purge, never automatically.
type ViewedProfile struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_viewed_user_candidate;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CandidateID int64     `gorm:"not null;uniqueIndex:idx_viewed_user_candidate" json:"candidate_id"`
	ViewedAt    time.Time `gorm:"autoCreateTime;index" json:"viewed_at"`
}
