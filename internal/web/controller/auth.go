package controller

import (
	"net/http"

	"go.uber.org/zap"

	"campuscms/internal/auth"
	"campuscms/internal/models"
)

// Auth provides auth handlers
type Auth struct {
	AuthService *auth.Service
	Log         *zap.Logger
}

// Register registers the auth routes
func (a *Auth) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", a.login)
	mux.HandleFunc("POST /logout", a.logout)
	mux.HandleFunc("GET /me", a.me)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *Auth) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, r, a.Log, err)
		return
	}
	user, err := a.AuthService.Login(w, r, c.Username, c.Password)
	if err != nil {
		a.Log.Info("login failed", zap.String("username", c.Username), zap.Error(err))
		writeError(w, r, a.Log, err)
		return
	}
	a.Log.Info("user logged in", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, user)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.AuthService.Logout(w, r); err != nil {
		writeError(w, r, a.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) me(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// User manages the accounts of administrators and writers.
type User struct {
	AuthService *auth.Service
	Log         *zap.Logger
}

// Register registers the user management routes
func (u *User) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/users", u.list)
	mux.HandleFunc("POST /admin/users", u.create)
	mux.HandleFunc("GET /admin/users/{id}", u.show)
	mux.HandleFunc("PUT /admin/users/{id}", u.update)
	mux.HandleFunc("DELETE /admin/users/{id}", u.delete)
}

type userInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

func (u *User) list(w http.ResponseWriter, r *http.Request) {
	users, err := u.AuthService.Repo.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

func (u *User) show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	user, err := u.AuthService.Repo.FindUser(r.Context(), id)
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (u *User) create(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	user, err := u.AuthService.RegisterUser(r.Context(), in.Username, in.DisplayName, in.Password, in.Role)
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	u.Log.Info("user created", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	writeJSON(w, http.StatusCreated, user)
}

// update changes a user's profile and role, and the password when one is
// given. The username is fixed.
func (u *User) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	user, err := u.AuthService.Repo.FindUser(r.Context(), id)
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}

	var in userInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	if in.DisplayName != "" {
		user.DisplayName = in.DisplayName
	}
	if in.Role != "" {
		if !auth.ValidRole(in.Role) {
			writeError(w, r, u.Log, invalid("unknown role %q", in.Role))
			return
		}
		if self := auth.CurrentUser(r.Context()); self != nil && self.ID == id && in.Role != models.RoleAdmin {
			writeError(w, r, u.Log, invalid("you cannot remove your own admin role"))
			return
		}
		user.Role = in.Role
	}

	if err := u.AuthService.Repo.UpdateUser(r.Context(), &user); err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	if in.Password != "" {
		if err := u.AuthService.ChangePassword(r.Context(), id, in.Password); err != nil {
			writeError(w, r, u.Log, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, user)
}

func (u *User) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	if self := auth.CurrentUser(r.Context()); self != nil && self.ID == id {
		writeError(w, r, u.Log, invalid("you cannot delete your own account"))
		return
	}
	if err := u.AuthService.Repo.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, u.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
