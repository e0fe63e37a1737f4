package entity

import "time"

// Message belongs to a conversation's messages subcollection. Messages
// are append-only; the only mutation after creation is the read flag,
// which flips to true once when the recipient opens the conversation.
// CreatedAt is assigned by the backend at commit time so ordering is
// consistent across clients.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	SenderName string    `json:"sender_name" firestore:"senderName"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	Read       bool      `json:"read" firestore:"read"`
}
