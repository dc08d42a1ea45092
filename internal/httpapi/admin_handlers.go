package httpapi

import (
	"context"
	"net/http"
)

type usernameRequest struct {
	Username string `json:"username"`
}

func (a *API) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	a.handleAdminAction(w, r, "user blocked", a.accounts.BlockUser)
}

func (a *API) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	a.handleAdminAction(w, r, "user unblocked", a.accounts.UnblockUser)
}

func (a *API) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	a.handleAdminAction(w, r, "user removed", a.accounts.RemoveUser)
}

func (a *API) handleAdminAction(w http.ResponseWriter, r *http.Request, message string, action func(ctx context.Context, username string) error) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := action(r.Context(), req.Username); err != nil {
		handleAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message})
}
