package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1hemant2/Library-Management-System/internal/models"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

type UserHandler struct {
	Collection *mongo.Collection
}

func NewUserHandler(coll *mongo.Collection) *UserHandler {
	return &UserHandler{Collection: coll}
}

type RegisterUserRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
}

// POST /user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req == (RegisterUserRequest{}) {
		utils.JSONError(w, "Input is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.Collection.FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": req.Email}, {"username": req.Username}},
	}).Err()
	if err == nil {
		utils.JSONError(w, "User already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := models.User{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Transactions:  []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := h.Collection.InsertOne(ctx, user); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.JSONSuccess(w, http.StatusCreated, utils.Response{Message: "User created successfully"})
}
