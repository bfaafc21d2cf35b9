package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user and provider.
func signJWT(user *models.InternalUser, provider string, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"email":    user.Email,
		"name":     user.Name,
		"provider": provider,
		"iss":      "kwatch-server",
		"iat":      now.Unix(),
		"exp":      now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func authUserResponse(user *models.InternalUser) map[string]interface{} {
	return map[string]interface{}{
		"user_id":  user.UserID,
		"email":    user.Email,
		"name":     user.Name,
		"provider": user.Provider,
	}
}

// --- User creation ---

// validateUserID checks that a user ID is safe for storage.
func validateUserID(userID string) string {
	if userID == "" {
		return "user_id is required"
	}
	if len(userID) > 128 {
		return "user_id must be 128 characters or fewer"
	}
	for _, c := range userID {
		if c < 0x20 || c == 0x7f {
			return "user_id contains invalid control characters"
		}
	}
	return ""
}

// handleUserCreate handles POST /api/users — create a local account.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if errMsg := validateUserID(req.UserID); errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}
	if req.Password == "" {
		WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.UserStore()

	if _, err := store.GetUser(ctx, req.UserID); err == nil {
		WriteError(w, http.StatusConflict, fmt.Sprintf("user '%s' already exists", req.UserID))
		return
	}

	// bcrypt rejects passwords over 72 bytes
	passwordBytes := []byte(req.Password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	now := time.Now()
	user := &models.InternalUser{
		UserID:       req.UserID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Provider:     "local",
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user", req.UserID).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   authUserResponse(user),
	})
}

// --- Login ---

// handleAuthLogin handles POST /api/auth/login — password login returning a JWT.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "user_id and password are required")
		return
	}

	user, err := s.app.Storage.UserStore().GetUser(r.Context(), req.UserID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.PasswordHash == "" {
		WriteError(w, http.StatusUnauthorized, "account has no password login")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := signJWT(user, "local", &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token": token,
			"user":  authUserResponse(user),
		},
	})
}

// --- OAuth ---

// findOrCreateOAuthUser looks up an OAuth-backed account, creating it on first login.
func (s *Server) findOrCreateOAuthUser(r *http.Request, userID, email, name, provider string) *models.InternalUser {
	ctx := r.Context()
	store := s.app.Storage.UserStore()

	if user, err := store.GetUser(ctx, userID); err == nil {
		return user
	}

	now := time.Now()
	user := &models.InternalUser{
		UserID:     userID,
		Email:      email,
		Name:       name,
		Provider:   provider,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("Failed to create OAuth user")
		return nil
	}
	s.logger.Info().Str("user", userID).Str("provider", provider).Msg("OAuth user created")
	return user
}

// handleAuthOAuth handles POST /api/auth/oauth — exchange a provider auth
// code for a kwatch JWT.
func (s *Server) handleAuthOAuth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Provider    string `json:"provider"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	switch req.Provider {
	case "dev":
		if s.app.Config.IsProduction() {
			WriteError(w, http.StatusForbidden, "dev provider is not available in production")
			return
		}
		user := s.findOrCreateOAuthUser(r, "dev_user", "dev@kwatch.local", "Dev User", "dev")
		if user == nil {
			WriteError(w, http.StatusInternalServerError, "failed to create dev user")
			return
		}
		s.writeTokenResponse(w, user, "dev")

	case "google":
		s.handleGoogleCodeExchange(w, r, req.Code, req.RedirectURI)

	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unsupported provider: %s", req.Provider))
	}
}

// handleGoogleCodeExchange exchanges a Google auth code for user info and returns a JWT.
func (s *Server) handleGoogleCodeExchange(w http.ResponseWriter, r *http.Request, code, redirectURI string) {
	cfg := s.app.Config.Auth.Google
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		WriteError(w, http.StatusInternalServerError, "Google OAuth not configured")
		return
	}
	if code == "" {
		WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	tokenResp, err := http.PostForm("https://oauth2.googleapis.com/token", url.Values{
		"code":          {code},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Google token exchange failed")
		WriteError(w, http.StatusBadGateway, "failed to exchange code with Google")
		return
	}
	defer tokenResp.Body.Close()

	var tokenData struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(tokenResp.Body).Decode(&tokenData); err != nil || tokenData.AccessToken == "" {
		errMsg := "failed to get access token from Google"
		if tokenData.Error != "" {
			errMsg = "Google error: " + tokenData.Error
		}
		WriteError(w, http.StatusBadGateway, errMsg)
		return
	}

	infoReq, _ := http.NewRequestWithContext(r.Context(), http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	infoReq.Header.Set("Authorization", "Bearer "+tokenData.AccessToken)
	infoResp, err := http.DefaultClient.Do(infoReq)
	if err != nil {
		s.logger.Error().Err(err).Msg("Google userinfo request failed")
		WriteError(w, http.StatusBadGateway, "failed to get user info from Google")
		return
	}
	defer infoResp.Body.Close()

	var userInfo struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(infoResp.Body).Decode(&userInfo); err != nil {
		WriteError(w, http.StatusBadGateway, "failed to parse Google user info")
		return
	}

	user := s.findOrCreateOAuthUser(r, "google_"+userInfo.ID, userInfo.Email, userInfo.Name, "google")
	if user == nil {
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.writeTokenResponse(w, user, "google")
}

func (s *Server) writeTokenResponse(w http.ResponseWriter, user *models.InternalUser, provider string) {
	token, err := signJWT(user, provider, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token": token,
			"user":  authUserResponse(user),
		},
	})
}

// handleAuthValidate handles GET /api/auth/validate — echo the principal
// resolved by the bearer middleware, or 401 for anonymous requests.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	p := common.PrincipalFromContext(r.Context())
	if p == nil {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user_id":  p.UserID,
			"email":    p.Email,
			"provider": p.Provider,
		},
	})
}
