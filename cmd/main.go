package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/1hemant2/Library-Management-System/configs"
	"github.com/1hemant2/Library-Management-System/internal/daemon"
	"github.com/1hemant2/Library-Management-System/internal/db"
	"github.com/1hemant2/Library-Management-System/internal/handlers"
	"github.com/1hemant2/Library-Management-System/internal/middleware"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret)

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	adminCol := db.GetCollection(cfg.DBName, "admins")
	userCol := db.GetCollection(cfg.DBName, "users")
	bookCol := db.GetCollection(cfg.DBName, "books")
	txCol := db.GetCollection(cfg.DBName, "transactions")
	auditCol := db.GetCollection(cfg.DBName, "audit_logs")

	auditLogger := utils.Logger{Collection: auditCol}
	ledger := &handlers.LedgerRecorder{UserCol: userCol, TransactionCol: txCol}

	adminHandler := handlers.NewAdminHandler(adminCol)
	userHandler := handlers.NewUserHandler(userCol)
	bookHandler := handlers.NewBookHandler(bookCol, ledger, auditLogger)
	txHandler := handlers.NewTransactionHandler(userCol, txCol)

	// Public routes
	r.HandleFunc("/admin/register", adminHandler.Register).Methods("POST")
	r.HandleFunc("/admin/login", adminHandler.Login).Methods("POST")
	r.HandleFunc("/user/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/book/getBook/{pageNo}", bookHandler.GetBooks).Methods("GET")
	r.HandleFunc("/book/search/{name}", bookHandler.SearchBooks).Methods("GET")
	r.HandleFunc("/transaction/userTransaction/{user}", txHandler.GetUserHistory).Methods("GET")

	// Admin-gated routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthGuard)

	protected.HandleFunc("/admin/verify", adminHandler.Verify).Methods("GET")
	protected.HandleFunc("/book/addBook", bookHandler.AddBook).Methods("POST")
	protected.HandleFunc("/book/bookDetails/{bookName}", bookHandler.GetBookDetails).Methods("GET")
	protected.HandleFunc("/book/avilability", bookHandler.ChangeAvailability).Methods("PATCH")
	protected.HandleFunc("/book/issue", bookHandler.IssueBook).Methods("POST")
	protected.HandleFunc("/book/return", bookHandler.ReturnBook).Methods("POST")
	protected.HandleFunc("/book/delete/{name}", bookHandler.DeleteBook).Methods("DELETE")
	protected.HandleFunc("/transaction/overdue", txHandler.GetOverdue).Methods("GET")

	exporterCtx, stopExporter := context.WithCancel(context.Background())
	exporter := daemon.AuditExporter{Coll: auditCol}
	exporter.Start(exporterCtx)

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	stopExporter()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := db.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect failed: %v", err)
	}
	log.Println("Server shut down.")
}
