package httpapi

import (
	"crypto/subtle"
	"net/http"

	"vigil.org/internal/account"
	"vigil.org/internal/obs"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type accountResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Blocked  bool     `json:"blocked"`
}

type loginResponse struct {
	User         accountResponse `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func accountView(acc *account.Account) accountResponse {
	return accountResponse{
		Username: acc.Username,
		Roles:    acc.Roles,
		Blocked:  acc.Blocked,
	}
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.checkSignupGuard(w, r) {
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	acc, err := a.accounts.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		obs.ObserveSignup("rejected")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveSignup("ok")
	writeJSON(w, http.StatusCreated, accountView(acc))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	session, err := a.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		obs.ObserveLogin("rejected")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, loginResponse{
		User:         accountView(session.Account),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// handleLogout requires a valid access token for authorization only; the
// domain consults just the refresh token.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.Logout(r.Context(), req.RefreshToken); err != nil {
		handleAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := a.accounts.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		obs.ObserveRotation("rejected")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveRotation("ok")
	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) checkSignupGuard(w http.ResponseWriter, r *http.Request) bool {
	if !a.signupGuard.enabled() {
		return true
	}
	access := r.Header.Get("X-Access-Token")
	secret := r.Header.Get("X-Secret-Token")
	if access == "" || secret == "" {
		writeError(w, r, http.StatusUnauthorized, "missing signup tokens")
		return false
	}
	accessOK := subtle.ConstantTimeCompare([]byte(access), []byte(a.signupGuard.AccessToken)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(a.signupGuard.SecretToken)) == 1
	if !accessOK || !secretOK {
		writeError(w, r, http.StatusUnauthorized, "invalid signup tokens")
		return false
	}
	return true
}
