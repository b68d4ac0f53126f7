package domain

import (
	"strings"
	"time"
)

// Recipient is a phone number an agency can alert
type Recipient struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	AgencyID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipient_agency_phone,priority:1;index:idx_recipient_agency_location,priority:1"`
	Name      string    `gorm:"size:200;not null"`
	Phone     string    `gorm:"size:20;not null;uniqueIndex:idx_recipient_agency_phone,priority:2"`
	Location  string    `gorm:"size:100;not null;index:idx_recipient_agency_location,priority:2"`
	Priority  bool      `gorm:"not null"`
	Active    bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Selector picks the recipients of an alert
type Selector string

const (
	SelectorAll      Selector = "all"
	SelectorLocation Selector = "location"
	SelectorPriority Selector = "priority"
)

// Valid reports whether s is a known selector
func (s Selector) Valid() bool {
	switch s {
	case SelectorAll, SelectorLocation, SelectorPriority:
		return true
	}
	return false
}

// RecipientSelection is a selector resolved against the registry at send time
type RecipientSelection struct {
	Selector Selector
	Location string
}

// Validate checks the selector and its location requirement
func (s RecipientSelection) Validate() error {
	if !s.Selector.Valid() {
		return ErrInvalidSelector.WithMessage("unknown recipients selector %q (supported: all, location, priority)", s.Selector)
	}
	if s.Selector == SelectorLocation && NormalizeLocation(s.Location) == "" {
		return ErrMissingLocation.WithMessage("location is required for the location selector")
	}
	return nil
}

// NormalizeLocation folds a location tag to the stored form
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// RecipientFilter narrows a recipient listing
type RecipientFilter struct {
	Location        string
	Search          string
	IncludeInactive bool
	Page            Page
}

// Import rejection reasons
const (
	RejectMalformedRow       = "MalformedRow"
	RejectMissingName        = "MissingName"
	RejectInvalidPhone       = "InvalidPhone"
	RejectMissingLocation    = "MissingLocation"
	RejectDuplicateRecipient = "DuplicateRecipient"
)

// ImportRejection describes a CSV row that was not imported
type ImportRejection struct {
	Line   int
	Reason string
	Detail string
}

// ImportResult summarizes a bulk CSV import
type ImportResult struct {
	Added     int
	Rejected  []ImportRejection
	TotalRows int
}
