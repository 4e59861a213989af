package adaptor

import (
	"net/http"
	"strconv"

	"health-predict/internal/dto/request"
	"health-predict/internal/usecase"
	"health-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AccountHandler struct {
	account usecase.AccountService
	log     *zap.Logger
}

func NewAccountHandler(account usecase.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		account: account,
		log:     log,
	}
}

// GetProfile handles GET /api/user/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.account.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", resp)
}

// UpdateProfile handles PUT /api/user/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.account.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Profile updated", resp)
}

// GetAllUsers handles GET /api/admin/users
func (h *AccountHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    parseQueryInt(r, "page", 1),
		PerPage: parseQueryInt(r, "per_page", 10),
	}

	resp, err := h.account.GetAllUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Users retrieved", resp)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := utils.ParseUUID(id); err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.account.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
