package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus is the workflow stage of an inquiry. Archived is the soft-delete state.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactContacted  ContactStatus = "contacted"
	ContactInProgress ContactStatus = "in-progress"
	ContactCompleted  ContactStatus = "completed"
	ContactArchived   ContactStatus = "archived"
)

// ContactStatuses lists every status in workflow order.
var ContactStatuses = []ContactStatus{ContactNew, ContactContacted, ContactInProgress, ContactCompleted, ContactArchived}

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	for _, known := range ContactStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContactPriority is the triage urgency of an inquiry, independent of its status.
type ContactPriority string

const (
	PriorityLow    ContactPriority = "low"
	PriorityMedium ContactPriority = "medium"
	PriorityHigh   ContactPriority = "high"
	PriorityUrgent ContactPriority = "urgent"
)

// ContactPriorities lists every priority from lowest to highest.
var ContactPriorities = []ContactPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is a known priority.
func (p ContactPriority) Valid() bool {
	for _, known := range ContactPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Contact is an inbound lead submitted through the public form.
type Contact struct {
	ID               uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	Email            string          `json:"email" gorm:"size:255;not null;index"`
	Company          string          `json:"company" gorm:"size:100"`
	Phone            string          `json:"phone" gorm:"size:30"`
	ProjectType      string          `json:"projectType" gorm:"size:100"`
	Budget           string          `json:"budget" gorm:"size:100"`
	Timeline         string          `json:"timeline" gorm:"size:100"`
	Message          string          `json:"message" gorm:"type:text;not null"`
	Status           ContactStatus   `json:"status" gorm:"type:varchar(16);not null;default:'new';index"`
	Priority         ContactPriority `json:"priority" gorm:"type:varchar(16);not null;default:'medium';index"`
	EmailSentToUser  bool            `json:"emailSentToUser" gorm:"not null;default:false"`
	EmailSentToAdmin bool            `json:"emailSentToAdmin" gorm:"not null;default:false"`
	CreatedAt        time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
