package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionType string

const (
	TypeBorrowed TransactionType = "borrowed"
	TypeReturned TransactionType = "returned"

	TransactionEntity = "transaction"

	// DueDateDays is how long an issued book may be kept.
	DueDateDays = 15
)

// LibraryTransaction is one immutable ledger entry. BookName and
// BookAuthor are denormalized so history survives catalog deletion.
type LibraryTransaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	Book            primitive.ObjectID `bson:"book" json:"book"`
	BookName        string             `bson:"bookName" json:"bookName"`
	BookAuthor      string             `bson:"bookAuthor" json:"bookAuthor"`
	TransactionType TransactionType    `bson:"transactionType" json:"transactionType"`
	DueDate         *time.Time         `bson:"dueDate,omitempty" json:"dueDate"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var ValidTransactionTypes = map[string]bool{
	string(TypeBorrowed): true,
	string(TypeReturned): true,
}

func IsValidTransactionType(t string) bool {
	return ValidTransactionTypes[t]
}
