package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"bank-ledger/internal/config"
	"bank-ledger/internal/handler"
	"bank-ledger/internal/repository"
	"bank-ledger/internal/service"
)

// Server is the HTTP front door over the ledger core. No business logic lives
// here; handlers delegate to the services.
type Server struct {
	router *mux.Router
	server *http.Server
	logger *slog.Logger
	port   string
}

// NewServer wires the flat-file store, services, handlers and routes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	// The stores treat a missing file as empty, but the data directory itself
	// must exist and be writable before we accept traffic.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	store := repository.NewStore(cfg.DataDir, logger)

	accountService := service.NewAccountService(store, logger)
	ledgerService := service.NewLedgerService(store.Account(), store.Transaction(), logger)
	userService := service.NewUserService(store.User(), logger)

	accountHandler := handler.NewAccountHandler(accountService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	userHandler := handler.NewUserHandler(userService)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	// Account routes
	router.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts", accountHandler.ListAccounts).Methods("GET")
	router.HandleFunc("/accounts/{account_id}", accountHandler.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{account_id}", accountHandler.DeleteAccount).Methods("DELETE")

	// Money movement
	router.HandleFunc("/accounts/{account_id}/deposit", ledgerHandler.Deposit).Methods("POST")
	router.HandleFunc("/accounts/{account_id}/withdraw", ledgerHandler.Withdraw).Methods("POST")
	router.HandleFunc("/transfers", ledgerHandler.Transfer).Methods("POST")
	router.HandleFunc("/transactions", ledgerHandler.History).Methods("GET")

	// Admin money movement, recorded with the admin transaction types
	router.HandleFunc("/admin/accounts/{account_id}/deposit", ledgerHandler.AdminDeposit).Methods("POST")
	router.HandleFunc("/admin/accounts/{account_id}/withdraw", ledgerHandler.AdminWithdraw).Methods("POST")

	// Users
	router.HandleFunc("/users", userHandler.Register).Methods("POST")
	router.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	router.HandleFunc("/users/{user_id}", userHandler.RemoveUser).Methods("DELETE")
	router.HandleFunc("/users/{username}/password", userHandler.ResetPassword).Methods("POST")
	router.HandleFunc("/users/{username}/username", userHandler.RenameUser).Methods("POST")
	router.HandleFunc("/login", userHandler.Login).Methods("POST")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router: router,
		logger: logger,
	}, nil
}

// loggingMiddleware adds request logging with a per-request ID.
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server on the specified port. Port "0" picks a free
// port; the one actually bound is available via GetPort.
func (s *Server) Start(port string) (string, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server", "port", s.port)

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed", "error", err)
		}
	}()

	return s.port, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) GetPort() string {
	return s.port
}

func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// StartServer builds a server from the configuration and starts it. Port "0"
// marks a test environment, which discards logs.
func StartServer(cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		return nil, "", err
	}

	return server, port, nil
}
