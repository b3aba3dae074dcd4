package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserEntity = "user"
)

// User is a library patron. Transactions is the append-only list of
// ledger entry ids, in the order they were recorded.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username      string               `bson:"username" json:"username"`
	FirstName     string               `bson:"firstName" json:"firstName"`
	LastName      string               `bson:"lastName" json:"lastName"`
	Email         string               `bson:"email" json:"email"`
	ContactNumber string               `bson:"contactNumber" json:"contactNumber"`
	Transactions  []primitive.ObjectID `bson:"transactions" json:"transactions"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}
