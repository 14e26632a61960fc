package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionQuickAppointments is the table holding quick appointment requests
const CollectionQuickAppointments = "quick_appointments"

// Column names used by queries and partial updates
const (
	ColumnPhoneNumber   = "phone_number"
	ColumnSubmittedAt   = "submitted_at"
	ColumnPreferredDate = "preferred_date"
	ColumnPreferredTime = "preferred_time"
)

// NotSpecified is stored when a scheduling preference is omitted
const NotSpecified = "Belirtilmedi"

// AppointmentStatus is the lifecycle state of a quick appointment.
// Only StatusPending is ever written; the other values are reserved.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// QuickAppointment represents a phone-only appointment request
type QuickAppointment struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	PhoneNumber   string            `gorm:"not null;index:idx_quick_appointments_phone_submitted,priority:1" json:"phoneNumber"`
	Name          string            `gorm:"not null" json:"name"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	PreferredDate *string           `json:"preferredDate"`
	PreferredTime *string           `json:"preferredTime"`
	SubmittedAt   time.Time         `gorm:"not null;index;index:idx_quick_appointments_phone_submitted,priority:2" json:"submittedAt"`
	Language      Language          `gorm:"size:8;not null;default:'tr'" json:"language"`
	Status        AppointmentStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for QuickAppointment
func (QuickAppointment) TableName() string {
	return CollectionQuickAppointments
}

// RecordID returns the appointment identifier
func (a *QuickAppointment) RecordID() string {
	return a.ID
}

// BeforeCreate hook
func (a *QuickAppointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	a.Language = NormalizeLanguage(string(a.Language))
	return nil
}
