package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/webchat-dev/webchat/core"
)

var validate = validator.New()

type registerPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if !s.decode(w, r, &payload) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server error")
		return
	}
	u, err := s.store.createUser(payload.Username, payload.Email, hash)
	if err != nil {
		writeJSONError(w, http.StatusConflict, "Username already exists")
		return
	}
	s.logger.Info("registered user", "user_id", u.ID, "username", u.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": u.ID,
		"message": "User registered successfully",
	})
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !s.decode(w, r, &payload) {
		return
	}

	u, ok := s.store.userByName(payload.Username)
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(payload.Password)) != nil {
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := issueToken(u, s.tokenTTL, s.secret)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_token": token,
		"user_id":       u.ID,
		"username":      u.Username,
		"message":       "Login successful",
	})
}

func (s *Server) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	// the middleware has already done the work
	writeJSON(w, http.StatusOK, map[string]any{"message": "Session valid"})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	rooms := s.store.memberRooms(requestUser(r).ID)
	writeJSON(w, http.StatusOK, map[string]any{"chats": rooms})
}

type createChatPayload struct {
	Name     string `json:"chat_name" validate:"required"`
	IsPublic bool   `json:"is_public"`
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var payload createChatPayload
	if !s.decode(w, r, &payload) {
		return
	}
	room := s.store.createRoom(strings.TrimSpace(payload.Name), payload.IsPublic, requestUser(r).ID)
	s.logger.Info("created chat", "chat_id", room.ID, "public", room.IsPublic)
	writeJSON(w, http.StatusOK, map[string]any{
		"chat_id":   room.ID,
		"is_public": room.IsPublic,
		"message":   "Chat created",
	})
}

type chatIDPayload struct {
	ChatID int `json:"chat_id" validate:"required"`
}

func (s *Server) handleSearchChat(w http.ResponseWriter, r *http.Request) {
	var payload chatIDPayload
	if !s.decode(w, r, &payload) {
		return
	}
	room, ok := s.store.room(payload.ChatID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Chat not found")
		return
	}
	writeJSON(w, http.StatusOK, room.wire())
}

func (s *Server) handleJoinChat(w http.ResponseWriter, r *http.Request) {
	var payload chatIDPayload
	if !s.decode(w, r, &payload) {
		return
	}
	err := s.store.join(payload.ChatID, requestUser(r).ID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"chat_id": payload.ChatID,
			"message": "Joined chat",
		})
	case errors.Is(err, errRoomNotFound):
		writeJSONError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, errAlreadyMember):
		writeJSONError(w, http.StatusConflict, "Already a member of this chat")
	case errors.Is(err, errPrivateRoom):
		writeJSONError(w, http.StatusForbidden, "Chat is private")
	default:
		writeJSONError(w, http.StatusInternalServerError, "server error")
	}
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.Atoi(chi.URLParam(r, "chatID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid chat id")
		return
	}
	messages, err := s.store.messages(chatID, requestUser(r).ID)
	switch {
	case err == nil:
		if messages == nil {
			messages = []core.Message{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
	case errors.Is(err, errRoomNotFound):
		writeJSONError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, errNotMember):
		writeJSONError(w, http.StatusForbidden, "Not a member of this chat")
	default:
		writeJSONError(w, http.StatusInternalServerError, "server error")
	}
}

type sendMessagePayload struct {
	ChatID  int    `json:"chat_id" validate:"required"`
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload sendMessagePayload
	if !s.decode(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		writeJSONError(w, http.StatusBadRequest, "Message content required")
		return
	}
	err := s.store.appendMessage(payload.ChatID, requestUser(r), payload.Content)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"message": "Message sent"})
	case errors.Is(err, errRoomNotFound):
		writeJSONError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, errNotMember):
		writeJSONError(w, http.StatusForbidden, "Not a member of this chat")
	default:
		writeJSONError(w, http.StatusInternalServerError, "server error")
	}
}

// decode unmarshals and validates a JSON payload, writing the error
// response itself when the payload is unusable.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"message": message})
}

func writeText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(message))
}
