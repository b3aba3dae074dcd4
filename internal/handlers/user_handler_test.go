package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/1hemant2/Library-Management-System/internal/handlers"
)

func TestUserHandler_Register(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("empty body rejected", func(mt *mtest.T) {
		handler := handlers.NewUserHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/user/register", handler.Register).Methods("POST")

		req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader([]byte("{}")))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", res.Status)
		}
	})

	mt.Run("duplicate user rejected", func(mt *mtest.T) {
		handler := handlers.NewUserHandler(mt.Coll)

		router := mux.NewRouter()
		router.HandleFunc("/user/register", handler.Register).Methods("POST")

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
		}))

		body, _ := json.Marshal(handlers.RegisterUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
		})
		req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", res.Status)
		}
	})
}
