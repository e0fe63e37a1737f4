package entity

import "time"

// Favorite marks a product saved by a user. The document ID is
// userID_productID, so saving the same product twice converges on one
// record, same idempotency pattern as conversations.
type Favorite struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	ProductID string    `json:"product_id" firestore:"productId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

func FavoriteID(userID, productID string) string {
	return userID + "_" + productID
}
