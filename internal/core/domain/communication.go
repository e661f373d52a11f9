package domain

import "time"

type Message struct {
	ID            string    `json:"id" bson:"_id"`
	ApplicationID string    `json:"application_id" bson:"application_id"`
	FromUserID    string    `json:"from_user_id" bson:"from_user_id"`
	ToUserID      *string   `json:"to_user_id" bson:"to_user_id,omitempty"`
	Body          string    `json:"body" bson:"body"`
	Attachments   []string  `json:"attachments" bson:"attachments"`
	IsInternal    bool      `json:"is_internal" bson:"is_internal"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "EMAIL"
	ChannelSMS      NotificationChannel = "SMS"
	ChannelWhatsApp NotificationChannel = "WHATSAPP"
	ChannelInApp    NotificationChannel = "INAPP"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

// TemplateStatusChanged is the template code used for status-change notices.
const TemplateStatusChanged = "APPLICATION_STATUS_CHANGED"

type Notification struct {
	ID           string              `json:"id" bson:"_id"`
	UserID       string              `json:"user_id" bson:"user_id"`
	Channel      NotificationChannel `json:"channel" bson:"channel"`
	TemplateCode string              `json:"template_code" bson:"template_code"`
	Payload      map[string]any      `json:"payload" bson:"payload"`
	Status       NotificationStatus  `json:"status" bson:"status"`
	SentAt       *time.Time          `json:"sent_at" bson:"sent_at,omitempty"`
	ReadAt       *time.Time          `json:"read_at" bson:"read_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}

type TemplateKind string

const (
	TemplateEmail  TemplateKind = "EMAIL"
	TemplateLetter TemplateKind = "LETTER"
	TemplatePDF    TemplateKind = "PDF"
)

// Template is unique per (code, locale).
type Template struct {
	ID        string       `json:"id" bson:"_id"`
	Code      string       `json:"code" bson:"code"`
	Name      string       `json:"name" bson:"name"`
	Kind      TemplateKind `json:"kind" bson:"kind"`
	Locale    string       `json:"locale" bson:"locale"`
	Subject   string       `json:"subject" bson:"subject"`
	BodyHTML  string       `json:"body_html" bson:"body_html"`
	BodyText  string       `json:"body_text" bson:"body_text"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
