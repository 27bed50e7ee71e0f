// Package stubserver is an in-memory implementation of the chat backend's
// wire contract. It exists so the client, its tests, and local development
// have a real counterparty; it is not a production server.
package stubserver

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Config struct {
	// Secret signs session tokens. Empty generates a random per-process
	// secret.
	Secret   []byte
	TokenTTL time.Duration
	// AllowedOrigins is passed straight to the CORS middleware.
	AllowedOrigins []string
}

type Server struct {
	logger   *slog.Logger
	store    *memStore
	secret   []byte
	tokenTTL time.Duration
	router   chi.Router
}

type ctxKey int

const userKey ctxKey = 0

func New(config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	secret := config.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		rand.Read(secret)
	}
	ttl := config.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		logger:   logger,
		store:    newMemStore(),
		secret:   secret,
		tokenTTL: ttl,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/validate_session", s.handleValidateSession)
		r.Get("/api/chats", s.handleListChats)
		r.Post("/api/chats/create_with_privacy", s.handleCreateChat)
		r.Post("/api/chats/search", s.handleSearchChat)
		r.Post("/api/chats/join", s.handleJoinChat)
		r.Get("/api/chats/{chatID}/messages", s.handleListMessages)
		r.Post("/api/messages", s.handleSendMessage)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the stub until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("stub server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// authMiddleware validates the bearer token and puts the authenticated
// user on the request context. Its failures are plain text, matching the
// original backend; handler failures are JSON.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeText(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		claims, err := verifyToken(token, s.secret)
		if err != nil {
			writeText(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		u, ok := s.store.userByID(claims.UserID)
		if !ok {
			writeText(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func requestUser(r *http.Request) user {
	u, _ := r.Context().Value(userKey).(user)
	return u
}
