package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionContactForms is the table holding contact form submissions
const CollectionContactForms = "contact_forms"

// ContactSubmission represents a contact form submission
type ContactSubmission struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	PhoneNumber string    `gorm:"not null" json:"phoneNumber"`
	Email       string    `gorm:"not null;index" json:"email"`
	Topic       string    `gorm:"not null" json:"topic"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Language    Language  `gorm:"size:8;not null;default:'tr'" json:"language"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submittedAt"`
}

// TableName specifies the table name for ContactSubmission
func (ContactSubmission) TableName() string {
	return CollectionContactForms
}

// RecordID returns the submission identifier
func (c *ContactSubmission) RecordID() string {
	return c.ID
}

// BeforeCreate hook
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now().UTC()
	}
	c.Language = NormalizeLanguage(string(c.Language))
	return nil
}
