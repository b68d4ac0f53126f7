package domain

import "time"

// Agency is the tenant boundary; every other entity is scoped by its ID
type Agency struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Name         string    `gorm:"size:200;not null"`
	Email        string    `gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:32;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// RevokedToken records a logged-out token until it would have expired anyway
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;type:varchar(36);primaryKey"`
	AgencyID  string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
