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
	"golang.org/x/crypto/bcrypt"

	"github.com/1hemant2/Library-Management-System/internal/middleware"
	"github.com/1hemant2/Library-Management-System/internal/models"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

type AdminHandler struct {
	Collection *mongo.Collection
}

func NewAdminHandler(coll *mongo.Collection) *AdminHandler {
	return &AdminHandler{Collection: coll}
}

type RegisterAdminRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
}

// POST /admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req == (RegisterAdminRequest{}) {
		utils.JSONError(w, "Body should not be empty", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.Collection.FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": req.Email}, {"username": req.Username}},
	}).Err()
	if err == nil {
		utils.JSONError(w, "Admin already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	if !models.IsValidEmail(req.Email) {
		utils.JSONError(w, "Please enter a valid email", http.StatusBadRequest)
		return
	}
	if len(req.Password) < models.MinPasswordLength {
		utils.JSONError(w, "Password length must be at least 4 characters", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	admin := models.Admin{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      string(hash),
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Role:          models.DefaultAdminRole,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := h.Collection.InsertOne(ctx, admin); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.JSONSuccess(w, http.StatusCreated, utils.Response{Message: "admin registered successfully"})
}

type LoginRequest struct {
	Admin    string `json:"admin"` // username or email
	Password string `json:"password"`
}

// POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Admin == "" && req.Password == "" {
		utils.JSONError(w, "Body should not be empty", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var admin models.Admin
	err := h.Collection.FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": req.Admin}, {"username": req.Admin}},
	}).Decode(&admin)
	if err != nil {
		utils.JSONError(w, "admin doesn't exist", http.StatusNotFound)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Invalid credential.", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Username)
	if err != nil {
		utils.JSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{Message: "login successful", Token: token})
}

// GET /admin/verify
// The guard has already decoded the token; this confirms the admin
// record still exists.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.AdminIDFromContext(r.Context())
	oid, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		utils.JSONError(w, "admin doesn't exist", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Collection.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		utils.JSONError(w, "admin doesn't exist", http.StatusNotFound)
		return
	}

	utils.JSONSuccess(w, http.StatusOK, utils.Response{Message: "Admin exist"})
}
