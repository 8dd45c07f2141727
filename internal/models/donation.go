package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationStatus represents the payment state of a donation
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationSucceeded DonationStatus = "succeeded"
	DonationFailed    DonationStatus = "failed"
)

// Donation is a pledge towards a post, settled through the payment processor
type Donation struct {
	ID              uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	PostID          uuid.UUID      `gorm:"type:text;not null;index" json:"post_id"`
	Post            *Post          `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	DonorID         uuid.UUID      `gorm:"type:text;not null;index" json:"donor_id"`
	Donor           *User          `gorm:"foreignKey:DonorID;constraint:OnDelete:CASCADE" json:"donor,omitempty"`
	Amount          int64          `gorm:"not null" json:"amount"`
	Currency        string         `gorm:"size:3;not null" json:"currency"`
	PaymentIntentID string         `gorm:"index" json:"payment_intent_id"`
	Status          DonationStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
