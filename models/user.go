package models

import "time"

// User is a synced requester profile. The ID comes from the external
// platform, so it is never generated locally. Mutable fields follow
// last-write-wins on every re-sync.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Age       *int   `json:"age,omitempty"`
	City      string `gorm:"size:100" json:"city"`
	Country   string `gorm:"size:100" json:"country"`
	Sex       int    `json:"sex"` // 0 unknown, 1 female, 2 male
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
