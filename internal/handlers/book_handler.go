package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/1hemant2/Library-Management-System/internal/constants"
	"github.com/1hemant2/Library-Management-System/internal/middleware"
	"github.com/1hemant2/Library-Management-System/internal/models"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

type BookHandler struct {
	BookCollection *mongo.Collection
	Ledger         *LedgerRecorder
	AuditLogger    utils.Logger
}

func NewBookHandler(bookColl *mongo.Collection, ledger *LedgerRecorder, logger utils.Logger) *BookHandler {
	return &BookHandler{
		BookCollection: bookColl,
		Ledger:         ledger,
		AuditLogger:    logger,
	}
}

// live matches catalog entries that have not been tombstoned.
func live(extra bson.M) bson.M {
	filter := bson.M{"deleted": false}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

type AddBookRequest struct {
	Name                string `json:"name"`
	Author              string `json:"author"`
	CurrentAvailability int    `json:"currentAvailability"`
}

// POST /book/addBook
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req AddBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		utils.JSONError(w, "Input is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.BookCollection.FindOne(ctx, live(bson.M{"name": req.Name})).Err()
	if err == nil {
		utils.JSONError(w, "Book already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	book := models.Book{
		Name:                req.Name,
		Author:              req.Author,
		CurrentAvailability: req.CurrentAvailability,
		Deleted:             false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := h.BookCollection.InsertOne(ctx, book); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, middleware.AdminIDFromContext(r.Context()), book)

	utils.JSONSuccess(w, http.StatusCreated, utils.Response{Message: "Book added successfully"})
}

// GET /book/getBook/{pageNo}
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	pageNo, err := strconv.Atoi(mux.Vars(r)["pageNo"])
	if err != nil || pageNo < 1 {
		utils.JSONError(w, "Invalid page number", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := h.BookCollection.CountDocuments(ctx, live(nil))
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64(pageNo-1) * models.BooksPerPage).
		SetLimit(models.BooksPerPage)

	cursor, err := h.BookCollection.Find(ctx, live(nil), opts)
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONError(w, "Error decoding books", http.StatusInternalServerError)
		return
	}

	totalPage := models.TotalPages(total, models.BooksPerPage)
	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message:   "all the books are here",
		Data:      books,
		TotalPage: &totalPage,
	})
}

// GET /book/bookDetails/{bookName}
func (h *BookHandler) GetBookDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["bookName"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var book models.Book
	if err := h.BookCollection.FindOne(ctx, live(bson.M{"name": name})).Decode(&book); err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{Message: "book details", Data: book})
}

type ChangeAvailabilityRequest struct {
	Name                string `json:"name"`
	CurrentAvailability int    `json:"currentAvailability"`
}

// PATCH /book/avilability
// Overwrites the counter unconditionally; there are no delta semantics.
func (h *BookHandler) ChangeAvailability(w http.ResponseWriter, r *http.Request) {
	var req ChangeAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		utils.JSONError(w, "Input is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := h.BookCollection.FindOneAndUpdate(ctx,
		live(bson.M{"name": req.Name}),
		bson.M{"$set": bson.M{
			"currentAvailability": req.CurrentAvailability,
			"updatedAt":           time.Now(),
		}},
		opts,
	).Decode(&book)
	if err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.ChangeAvailability, middleware.AdminIDFromContext(r.Context()), req)

	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message:             "availability updated",
		CurrentAvailability: &book.CurrentAvailability,
	})
}

// DELETE /book/delete/{name}
// Tombstones the book instead of removing it, so ledger entries that
// reference it stay resolvable.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	err := h.BookCollection.FindOneAndUpdate(ctx,
		live(bson.M{"name": name}),
		bson.M{"$set": bson.M{
			"deleted":   true,
			"deletedAt": now,
			"updatedAt": now,
		}},
	).Err()
	if err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Delete, middleware.AdminIDFromContext(r.Context()), name)

	utils.JSONSuccess(w, http.StatusOK, utils.Response{Message: "Book deleted successfully"})
}

// GET /book/search/{name}
// Exact-match on name, as the deployed client expects.
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		utils.JSONError(w, "Search pattern is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := h.BookCollection.Find(ctx, live(bson.M{"name": name}))
	if err != nil {
		utils.JSONError(w, "Failed to search books: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var results []models.Book
	if err = cursor.All(ctx, &results); err != nil {
		utils.JSONError(w, "Failed to decode books", http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		utils.JSONError(w, "No record found", http.StatusNotFound)
		return
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{Message: "matching books", Data: results})
}

type IssueReturnRequest struct {
	User            string `json:"user"` // username or email
	BookName        string `json:"bookName"`
	TransactionType string `json:"transactionType"`
}

// POST /book/issue
// The counter move is a single atomic decrement with an availability
// floor in the filter, so two concurrent issues of the last copy cannot
// both succeed. The ledger entry is written only after the decrement;
// a failed ledger write reverses the counter.
func (h *BookHandler) IssueBook(w http.ResponseWriter, r *http.Request) {
	var req IssueReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TransactionType != string(models.TypeBorrowed) {
		utils.JSONError(w, "transactionType must be \"borrowed\"", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !h.Ledger.UserExists(ctx, req.User) {
		utils.JSONError(w, "user doesn't exist", http.StatusNotFound)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := h.BookCollection.FindOneAndUpdate(ctx,
		live(bson.M{"name": req.BookName, "currentAvailability": bson.M{"$gt": 0}}),
		bson.M{
			"$inc": bson.M{"currentAvailability": -1},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&book)
	if err != nil {
		// No copy was taken. Distinguish a missing book from an
		// exhausted one.
		if lookupErr := h.BookCollection.FindOne(ctx, live(bson.M{"name": req.BookName})).Err(); lookupErr != nil {
			utils.JSONError(w, "Book doesn't exist", http.StatusNotFound)
			return
		}
		utils.JSONError(w, "Book is not available", http.StatusConflict)
		return
	}

	if res := h.Ledger.Record(ctx, req.User, book, models.TypeBorrowed); !res.OK {
		_, uerr := h.BookCollection.UpdateOne(ctx,
			bson.M{"_id": book.ID},
			bson.M{"$inc": bson.M{"currentAvailability": 1}},
		)
		if uerr != nil {
			log.Printf("issue: failed to reverse availability of %q: %v", book.Name, uerr)
		}
		utils.JSONError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Issue, middleware.AdminIDFromContext(r.Context()), req)

	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message:             "Book issued successfully",
		CurrentAvailability: &book.CurrentAvailability,
	})
}

// POST /book/return
// The increment is unbounded; returns of extra copies grow the count.
func (h *BookHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	var req IssueReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TransactionType != string(models.TypeReturned) {
		utils.JSONError(w, "transactionType must be \"returned\"", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !h.Ledger.UserExists(ctx, req.User) {
		utils.JSONError(w, "user doesn't exist", http.StatusNotFound)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := h.BookCollection.FindOneAndUpdate(ctx,
		live(bson.M{"name": req.BookName}),
		bson.M{
			"$inc": bson.M{"currentAvailability": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&book)
	if err != nil {
		utils.JSONError(w, "Book doesn't exist", http.StatusNotFound)
		return
	}

	if res := h.Ledger.Record(ctx, req.User, book, models.TypeReturned); !res.OK {
		_, uerr := h.BookCollection.UpdateOne(ctx,
			bson.M{"_id": book.ID},
			bson.M{"$inc": bson.M{"currentAvailability": -1}},
		)
		if uerr != nil {
			log.Printf("return: failed to reverse availability of %q: %v", book.Name, uerr)
		}
		utils.JSONError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Return, middleware.AdminIDFromContext(r.Context()), req)

	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message:             "Book returned successfully",
		CurrentAvailability: &book.CurrentAvailability,
	})
}
