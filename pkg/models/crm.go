package models

import "time"

// Deal is the CRM record workflow steps act on.
type Deal struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Stage        string    `json:"stage"`
	ContactEmail string    `json:"contact_email,omitempty"`
	OwnerID      string    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActivityType classifies a CRM activity entry.
type ActivityType string

const (
	ActivityNote ActivityType = "NOTE"
	ActivityTask ActivityType = "TASK"
)

// Activity is an entry on a deal's timeline. CREATE_TASK steps record tasks
// here rather than in a dedicated task table.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Content   string       `json:"content"`
	DealID    string       `json:"deal_id"`
	UserID    string       `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// Notification is an in-app notification produced by SEND_NOTIFICATION steps.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
