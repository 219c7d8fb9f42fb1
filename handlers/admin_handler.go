package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blackhacks/scrim-system/presence"
	"github.com/blackhacks/scrim-system/services"
)

// AdminHandler обслуживает панель администратора: ключи и пользователи.
type AdminHandler struct {
	licenseService services.LicenseService
	userService    services.UserService
	tracker        presence.Tracker
}

func NewAdminHandler(licenseService services.LicenseService, userService services.UserService, tracker presence.Tracker) *AdminHandler {
	return &AdminHandler{
		licenseService: licenseService,
		userService:    userService,
		tracker:        tracker,
	}
}

func (h *AdminHandler) GenerateKeys(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TypeCode string `json:"type_code"`
		Count    int    `json:"count"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	keys, err := h.licenseService.GenerateKeys(r.Context(), input.TypeCode, input.Count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"keys": keys}, nil)
}

func (h *AdminHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.licenseService.ListKeys(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"keys": keys}, nil)
}

func (h *AdminHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.licenseService.RevokeKey(r.Context(), code); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"revoked": code}, nil)
}

func (h *AdminHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.licenseService.DeleteKey(r.Context(), code); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userWithPresence расширяет пользователя онлайн-статусом из Redis.
type userWithPresence struct {
	User     interface{} `json:"user"`
	IsOnline bool        `json:"is_online"`
	LastSeen *time.Time  `json:"last_seen,omitempty"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	enriched := make([]userWithPresence, len(users))
	for i := range users {
		entry := userWithPresence{User: users[i]}
		if online, err := h.tracker.IsOnline(r.Context(), users[i].ID); err == nil {
			entry.IsOnline = online
		}
		if seen, ok, err := h.tracker.LastSeen(r.Context(), users[i].ID); err == nil && ok {
			entry.LastSeen = &seen
		}
		enriched[i] = entry
	}

	writeJSON(w, http.StatusOK, jsonResponse{"users": enriched}, nil)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) SetUserLicenseExpiry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	var input struct {
		LicenseExpiry *time.Time `json:"license_expiry"` // null снимает ограничение
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.SetLicenseExpiry(r.Context(), id, input.LicenseExpiry)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil)
}
