package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/1hemant2/Library-Management-System/internal/handlers"
)

func TestAdminHandler_Register(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("empty body rejected", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/register", handler.Register).Methods("POST")

		req := httptest.NewRequest(http.MethodPost, "/admin/register", bytes.NewReader([]byte("{}")))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", res.Status)
		}
	})

	mt.Run("short password creates no record", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/register", handler.Register).Methods("POST")

		// No existing admin with this username or email.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.admins", mtest.FirstBatch))

		body, _ := json.Marshal(handlers.RegisterAdminRequest{
			Username:      "hemant",
			FirstName:     "Hemant",
			LastName:      "Sharma",
			Password:      "abc",
			Email:         "hemant@library.org",
			ContactNumber: "9999999999",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", res.Status)
		}
	})

	mt.Run("invalid email rejected", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/register", handler.Register).Methods("POST")

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.admins", mtest.FirstBatch))

		body, _ := json.Marshal(handlers.RegisterAdminRequest{
			Username: "hemant",
			Password: "secret",
			Email:    "not-an-email",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", res.Status)
		}
	})

	mt.Run("duplicate admin rejected", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/register", handler.Register).Methods("POST")

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.admins", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "hemant"},
			{Key: "email", Value: "hemant@library.org"},
		}))

		body, _ := json.Marshal(handlers.RegisterAdminRequest{
			Username: "hemant",
			Password: "secret",
			Email:    "hemant@library.org",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", res.Status)
		}
	})
}

func TestAdminHandler_Login(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("unknown admin", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/login", handler.Login).Methods("POST")

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.admins", mtest.FirstBatch))

		body, _ := json.Marshal(handlers.LoginRequest{Admin: "nobody", Password: "whatever"})
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", res.Status)
		}
	})

	mt.Run("wrong password issues no token", func(mt *mtest.T) {
		handler := handlers.NewAdminHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/admin/login", handler.Login).Methods("POST")

		hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.admins", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "hemant"},
			{Key: "password", Value: string(hash)},
		}))

		body, _ := json.Marshal(handlers.LoginRequest{Admin: "hemant", Password: "wrong-password"})
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", res.Status)
		}
		if strings.Contains(w.Body.String(), "token") {
			t.Errorf("expected no token in response, got %s", w.Body.String())
		}
	})
}
