package model

import "time"

// SlotLock is an advisory lock document guarding concurrent booking creation.
// The ID encodes one quantized slot cell for one service or one user; the
// unique _id index makes acquisition atomic, and the TTL index reaps locks
// left behind by crashed requests.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
