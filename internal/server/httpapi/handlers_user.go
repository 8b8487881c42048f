package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sealedchat/sealedchat/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.logger.Info(r.Context(), "Registration request", "email", req.Email)

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

// token accepts either a JSON body or an OAuth2-style password form
// (username/password fields) and mints a bearer token.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var email, password string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		email, password = req.Email, req.Password
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		email = r.PostFormValue("username")
		password = r.PostFormValue("password")
	}

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, requestUser(r).Public())
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	view, err := s.users.PublicUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	users, total, err := s.users.List(r.Context(), page, limit, q.Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": total,
	})
}

func (s *Server) suspendUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := mux.Vars(r)["userId"]
	if err := s.users.Suspend(r.Context(), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "User suspended", "id", id, "by", requestUser(r).ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "suspended"})
}

func (s *Server) unsuspendUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["userId"]
	if err := s.users.Unsuspend(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "User unsuspended", "id", id, "by", requestUser(r).ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             *string `json:"name"`
		Email            *string `json:"email"`
		IsAdmin          *bool   `json:"is_admin"`
		IsSuspended      *bool   `json:"is_suspended"`
		SuspensionReason *string `json:"suspension_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Update(r.Context(), mux.Vars(r)["userId"], services.AdminUpdate{
		Name:             req.Name,
		Email:            req.Email,
		IsAdmin:          req.IsAdmin,
		IsSuspended:      req.IsSuspended,
		SuspensionReason: req.SuspensionReason,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["userId"]
	if err := s.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "User deleted", "id", id, "by", requestUser(r).ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
