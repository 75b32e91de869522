package db_models

import "github.com/google/uuid"

// TemplatePasswordReset is the seeded template used by forgot-password.
const TemplatePasswordReset = "PASSWORD_RESET"

type EmailTemplate struct {
	BaseModel
	Name    string `gorm:"uniqueIndex;size:128" json:"name"`
	Subject string `json:"subject"`
	Content string `gorm:"type:text" json:"content"`
}

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "SENT"
	EmailStatusFailed EmailStatus = "FAILED"
)

type EmailLog struct {
	BaseModel
	UserID            *uuid.UUID  `gorm:"type:uuid;index" json:"userId,omitempty"`
	To                string      `gorm:"column:to_address;index" json:"to"`
	Subject           string      `json:"subject"`
	Content           string      `gorm:"type:text" json:"content"`
	TemplateName      string      `gorm:"size:128" json:"templateName,omitempty"`
	Status            EmailStatus `gorm:"size:16;index" json:"status"`
	ErrorMessage      string      `json:"errorMessage,omitempty"`
	ProviderMessageID string      `json:"providerMessageId,omitempty"`
	SentAt            int64       `gorm:"index" json:"sentAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

type WaitingList struct {
	BaseModel
	Email string `gorm:"uniqueIndex;size:320" json:"email"`
}

type Setting struct {
	BaseModel
	Key   string `gorm:"uniqueIndex;size:128" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}
