package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"egazette/internal"
	"egazette/internal/upstream"
	"egazette/pkg/types"
)

type loginInput struct {
	Token string `json:"token"`
}

// handlePostLogin validates an opaque legacy token upstream, records the
// auth state and hands the client an encrypted session cookie.
func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Token) == "" {
		s.respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	userID, email, err := s.upstream.ValidateToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, upstream.ErrInvalidToken) {
			s.respondError(w, http.StatusUnauthorized, "token was rejected")
			return
		}
		s.logger.WithError(err).Error("failed to validate token upstream")
		s.internalServerError(w)
		return
	}

	err = s.profiles.SaveAuthState(ctx, &types.AuthState{
		UserID: userID,
		Token:  input.Token,
		Email:  email,
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save auth state")
		s.internalServerError(w)
		return
	}

	err = s.setSessionCookie(w, session{UserID: userID, Token: input.Token})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"email":   email,
		"success": true,
	})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(internal.COOKIE_SESSION_NAME)
	if err == nil {
		var sess session
		if decodeErr := s.cookie.Decode(cookie.Name, cookie.Value, &sess); decodeErr == nil && sess.UserID != "" {
			if clearErr := s.profiles.ClearAuthState(ctx, sess.UserID); clearErr != nil {
				s.logger.WithError(clearErr).WithField("user_id", sess.UserID).Error("failed to clear auth state")
			}
		}
	}

	s.clearSessionCookie(w)
	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := s.profiles.ProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			s.respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to load profile")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

type profileInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Service) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input profileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(input.FullName) == "" {
		s.respondFieldErrors(w, map[string]string{"fullName": "this field is required"})
		return
	}

	profile := &types.UserProfile{
		UserID:   userID,
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
	}
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save profile")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}
