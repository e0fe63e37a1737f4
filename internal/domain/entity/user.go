package entity

import "time"

type User struct {
	ID          string    `json:"id" firestore:"uid"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
