package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1hemant2/Library-Management-System/internal/models"
)

// LedgerRecorder appends immutable entries to the transaction ledger
// and mirrors each entry id onto the owning user. It is called
// in-process by the issue/return path and by nothing else, so it
// returns a tagged result instead of writing an HTTP response.
type LedgerRecorder struct {
	UserCol        *mongo.Collection
	TransactionCol *mongo.Collection
}

type RecordResult struct {
	OK      bool
	Message string
}

// Record resolves the patron by username or email, inserts one ledger
// entry and pushes its id onto the user's append-only history. The due
// date is set only for issuance.
func (l *LedgerRecorder) Record(ctx context.Context, userIdent string, book models.Book, txType models.TransactionType) RecordResult {
	var user models.User
	err := l.UserCol.FindOne(ctx, bson.M{
		"$or": []bson.M{{"username": userIdent}, {"email": userIdent}},
	}).Decode(&user)
	if err != nil {
		return RecordResult{OK: false, Message: "user doesn't exist"}
	}

	now := time.Now()
	var dueDate *time.Time
	if txType == models.TypeBorrowed {
		d := now.AddDate(0, 0, models.DueDateDays)
		dueDate = &d
	}

	tx := models.LibraryTransaction{
		ID:              primitive.NewObjectID(),
		User:            user.ID,
		Book:            book.ID,
		BookName:        book.Name,
		BookAuthor:      book.Author,
		TransactionType: txType,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := l.TransactionCol.InsertOne(ctx, tx); err != nil {
		return RecordResult{OK: false, Message: "failed to record transaction"}
	}

	_, err = l.UserCol.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$push": bson.M{"transactions": tx.ID},
			"$set":  bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return RecordResult{OK: false, Message: "failed to update user history"}
	}

	return RecordResult{OK: true, Message: "transaction completed"}
}

// UserExists reports whether a patron resolves by username or email.
// The issue path checks this before touching the availability counter
// so a bad identifier cannot move the count.
func (l *LedgerRecorder) UserExists(ctx context.Context, userIdent string) bool {
	err := l.UserCol.FindOne(ctx, bson.M{
		"$or": []bson.M{{"username": userIdent}, {"email": userIdent}},
	}).Err()
	return err == nil
}
