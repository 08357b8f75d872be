package models

import "time"

// ChatMessage is stored encrypted; Body is only populated on the way out.
type ChatMessage struct {
	ID          string    `bson:"id" json:"id"`
	RoomID      string    `bson:"roomId" json:"roomId"`
	SenderID    string    `bson:"senderId" json:"senderId"`
	SenderRole  string    `bson:"senderRole" json:"senderRole"`
	RecipientID string    `bson:"recipientId,omitempty" json:"recipientId,omitempty"`
	Ciphertext  []byte    `bson:"ciphertext" json:"-"`
	Body        string    `bson:"-" json:"body"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// SendMessageRequest is the chat send payload.
type SendMessageRequest struct {
	RoomID      string `json:"roomId" binding:"required"`
	SenderName  string `json:"senderName"`
	SenderRole  string `json:"senderRole" binding:"required,oneof=user therapist business"`
	RecipientID string `json:"recipientId"`
	Body        string `json:"body" binding:"required"`
}

// SendMessageResult tells the sender whether the message went through.
type SendMessageResult struct {
	Allowed           bool         `json:"allowed"`
	Message           *ChatMessage `json:"message,omitempty"`
	WarningMessage    string       `json:"warningMessage,omitempty"`
	AccountRestricted bool         `json:"accountRestricted"`
}
