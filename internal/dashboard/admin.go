package dashboard

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// AdminConfig carries the administrator dashboard's dependencies.
type AdminConfig struct {
	Admin  *upstream.AdminClient
	Logger *logging.Logger
}

type AdminHandler struct {
	admin  *upstream.AdminClient
	logger *logging.Logger
}

func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{admin: cfg.Admin, logger: logger}
}

// AdminView is the administrator dashboard payload.
type AdminView struct {
	Profile    viewmodel.ProfileSection `json:"profile"`
	Users      []viewmodel.UserView     `json:"users"`
	UsersError string                   `json:"users_error,omitempty"`
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleAdministrator)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg         sync.WaitGroup
		profile    *upstream.Profile
		profileErr error
		users      []upstream.User
		usersErr   error
	)
	wg.Add(2)
	go func() { defer wg.Done(); profile, profileErr = h.admin.Profile(ctx, p.ID) }()
	go func() { defer wg.Done(); users, usersErr = h.admin.ListUsers(ctx) }()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("administrator profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load administrator profile", profileErr))
		return
	}

	view := AdminView{
		Profile: viewmodel.ProfileSectionFrom(profile),
		Users:   viewmodel.UsersFrom(users),
	}
	if usersErr != nil {
		view.UsersError = upstream.UserMessage("load users", usersErr)
	}
	respondJSON(w, http.StatusOK, view)
}

type createUserForm struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	UserType       string `json:"user_type"`
	EmployeeID     string `json:"employee_id"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

// staffRoles are account types provisioned with an employee id.
var staffRoles = map[session.Role]bool{
	session.RoleDoctor:        true,
	session.RoleNurse:         true,
	session.RolePharmacist:    true,
	session.RoleLabTechnician: true,
}

// CreateUser handles POST /admin/users. All validation happens before any
// backend request is issued.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, session.RoleAdministrator); !ok {
		return
	}
	var form createUserForm
	if !decodeJSON(w, r, &form) {
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		jsonError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}
	role, ok := session.ParseRole(form.UserType)
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid user type.")
		return
	}
	if staffRoles[role] && strings.TrimSpace(form.EmployeeID) == "" {
		jsonError(w, http.StatusBadRequest, "Employee ID is required for staff accounts.")
		return
	}

	created, err := h.admin.CreateUser(r.Context(), upstream.CreateUserRequest{
		Username:       form.Username,
		Password:       form.Password,
		Email:          form.Email,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		UserType:       string(role),
		EmployeeID:     strings.TrimSpace(form.EmployeeID),
		Specialization: form.Specialization,
		LicenseNumber:  form.LicenseNumber,
	})
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("create user", err))
		return
	}

	users, listErr := h.admin.ListUsers(r.Context())
	resp := struct {
		User       viewmodel.UserView   `json:"user"`
		Users      []viewmodel.UserView `json:"users"`
		UsersError string               `json:"users_error,omitempty"`
	}{
		User:  viewmodel.UserFrom(*created),
		Users: viewmodel.UsersFrom(users),
	}
	if listErr != nil {
		resp.UsersError = upstream.UserMessage("load users", listErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}

// DeleteUser handles DELETE /admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleAdministrator)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "id")
	if userID == "" {
		jsonError(w, http.StatusBadRequest, "User id is required.")
		return
	}
	if userID == p.ID {
		jsonError(w, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	if err := h.admin.DeleteUser(r.Context(), userID); err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("delete user", err))
		return
	}

	users, listErr := h.admin.ListUsers(r.Context())
	resp := struct {
		Users      []viewmodel.UserView `json:"users"`
		UsersError string               `json:"users_error,omitempty"`
	}{Users: viewmodel.UsersFrom(users)}
	if listErr != nil {
		resp.UsersError = upstream.UserMessage("load users", listErr)
	}
	respondJSON(w, http.StatusOK, resp)
}
