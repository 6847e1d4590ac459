package web

import (
	"errors"
	"net/http"

	"github.com/example/jetsetgo/internal/auth"
	"github.com/example/jetsetgo/internal/db"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.Auth == nil {
		respondError(w, http.StatusServiceUnavailable, "user store unavailable")
		return
	}

	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: email, password, and name are required")
		return
	}

	user, err := s.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email is already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	if err := s.Auth.SetSession(w, r, user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	respondData(w, http.StatusCreated, envelope{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.Auth == nil {
		respondError(w, http.StatusServiceUnavailable, "user store unavailable")
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: email and password are required")
		return
	}

	user, err := s.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not authenticate")
		return
	}

	if err := s.Auth.SetSession(w, r, user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	respondData(w, http.StatusOK, envelope{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.Auth != nil {
		s.Auth.ClearSession(w)
	}
	respondData(w, http.StatusOK, envelope{})
}

// handleMe sits behind RequireAuth, so a user id is always in the context.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.Auth.User(r.Context(), uid)
	if err != nil {
		if db.IsNotFound(err) {
			s.Auth.ClearSession(w)
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not load user")
		return
	}
	respondData(w, http.StatusOK, envelope{"user": user})
}
