// File: models/records.go
package models

import "time"

// ViolationType classifies contact information found in a chat message.
type ViolationType string

const (
	ViolationPhoneDigits ViolationType = "PHONE_NUMBER_DIGITS"
	ViolationPhoneWords  ViolationType = "PHONE_NUMBER_WORDS"
	ViolationWhatsApp    ViolationType = "WHATSAPP_REFERENCE"
	ViolationPhrase      ViolationType = "CONTACT_PHRASE"
	ViolationSocial      ViolationType = "SOCIAL_MEDIA"
	ViolationEmail       ViolationType = "EMAIL_ADDRESS"
)

// Account roles that can send chat messages.
const (
	RoleUser      = "user"
	RoleTherapist = "therapist"
	RoleBusiness  = "business"
)

// ContactViolation is kept for admin review.
type ContactViolation struct {
	ViolationID       string        `bson:"violationId" json:"violationId"`
	UserID            string        `bson:"userId" json:"userId"`
	UserName          string        `bson:"userName" json:"userName"`
	UserRole          string        `bson:"userRole" json:"userRole"`
	ViolationType     ViolationType `bson:"violationType" json:"violationType"`
	OriginalMessage   string        `bson:"originalMessage" json:"originalMessage"`
	DetectedContent   string        `bson:"detectedContent" json:"detectedContent"`
	ChatRoomID        string        `bson:"chatRoomId,omitempty" json:"chatRoomId,omitempty"`
	RecipientID       string        `bson:"recipientId,omitempty" json:"recipientId,omitempty"`
	AccountRestricted bool          `bson:"accountRestricted" json:"accountRestricted"`
	AdminReviewed     bool          `bson:"adminReviewed" json:"adminReviewed"`
	AdminAction       string        `bson:"adminAction,omitempty" json:"adminAction,omitempty"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	ReviewedAt        *time.Time    `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy        string        `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
}

// ProximityViolation records a customer/provider pair measured too close.
type ProximityViolation struct {
	CustomerID     string    `bson:"customerId" json:"customerId"`
	ProviderID     string    `bson:"providerId" json:"providerId"`
	DistanceMeters float64   `bson:"distanceMeters" json:"distanceMeters"`
	Tier           int       `bson:"tier" json:"tier"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
