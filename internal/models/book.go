package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookEntity = "book"

	// BooksPerPage is the fixed page size of the catalog listing.
	BooksPerPage = 12
)

// Book carries its own availability counter. Deletion is a tombstone so
// ledger entries keep resolving after a book leaves the catalog.
type Book struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Author              string             `bson:"author" json:"author"`
	CurrentAvailability int                `bson:"currentAvailability" json:"currentAvailability"`
	Deleted             bool               `bson:"deleted" json:"-"`
	DeletedAt           *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalPages is ceil(totalCount / pageSize) for the catalog listing.
func TotalPages(totalCount, pageSize int64) int64 {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
