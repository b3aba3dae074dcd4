package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/1hemant2/Library-Management-System/internal/models"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

type TransactionHandler struct {
	UserCol        *mongo.Collection
	TransactionCol *mongo.Collection
}

func NewTransactionHandler(userCol, txCol *mongo.Collection) *TransactionHandler {
	return &TransactionHandler{UserCol: userCol, TransactionCol: txCol}
}

// GET /transaction/userTransaction/{user}
// History follows the user's append order, not a chronological re-sort.
func (h *TransactionHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	ident := mux.Vars(r)["user"]
	if ident == "" {
		utils.JSONError(w, "Input is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := h.UserCol.FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": ident}, {"username": ident}},
	}).Decode(&user)
	if err != nil {
		utils.JSONError(w, "User does not exist", http.StatusNotFound)
		return
	}

	history := []models.LibraryTransaction{}
	if len(user.Transactions) > 0 {
		cursor, err := h.TransactionCol.Find(ctx, bson.M{"_id": bson.M{"$in": user.Transactions}})
		if err != nil {
			utils.JSONError(w, "Failed to fetch transactions", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(ctx)

		var entries []models.LibraryTransaction
		if err = cursor.All(ctx, &entries); err != nil {
			utils.JSONError(w, "Error decoding transactions", http.StatusInternalServerError)
			return
		}

		// $in gives no ordering guarantee; restore the user's list order.
		byID := make(map[primitive.ObjectID]models.LibraryTransaction, len(entries))
		for _, e := range entries {
			byID[e.ID] = e
		}
		for _, id := range user.Transactions {
			if e, ok := byID[id]; ok {
				history = append(history, e)
			}
		}
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message: "all the data related to user",
		Data:    history,
	})
}

// GET /transaction/overdue
// Borrowed entries whose due date has passed, oldest first.
func (h *TransactionHandler) GetOverdue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := h.TransactionCol.Find(ctx, bson.M{
		"transactionType": models.TypeBorrowed,
		"dueDate":         bson.M{"$lt": time.Now()},
	}, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		utils.JSONError(w, "Failed to fetch overdue transactions", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	overdue := []models.LibraryTransaction{}
	if err = cursor.All(ctx, &overdue); err != nil {
		utils.JSONError(w, "Error decoding transactions", http.StatusInternalServerError)
		return
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{
		Message: "overdue transactions",
		Data:    overdue,
	})
}
