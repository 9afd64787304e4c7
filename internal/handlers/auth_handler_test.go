package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spentra/internal/errors"
	"spentra/internal/middleware"
	"spentra/internal/models"
	"spentra/internal/services"
	"spentra/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(email, password, firstName, lastName string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	updateProfileFn         func(userID, firstName, lastName, email string) (*models.User, error)
	changePasswordFn        func(userID, oldPassword, newPassword string) error
	resetPasswordFn         func(userID, newPassword string) error
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
}

func (m *mockUserService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, firstName, lastName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateProfile(userID, firstName, lastName, email string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, firstName, lastName, email)
	}
	return &models.User{Base: models.Base{ID: userID}}, nil
}

func (m *mockUserService) ChangePassword(userID, oldPassword, newPassword string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(userID, oldPassword, newPassword)
	}
	return nil
}

func (m *mockUserService) ResetPassword(userID, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(userID, newPassword)
	}
	return nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

type mockOTPService struct {
	requestResetFn       func(email string) error
	verifyOTPFn          func(email, code string) error
	consumeVerifiedOTPFn func(email, code string) (*models.User, error)
}

func (m *mockOTPService) RequestReset(email string) error {
	if m.requestResetFn != nil {
		return m.requestResetFn(email)
	}
	return nil
}

func (m *mockOTPService) VerifyOTP(email, code string) error {
	if m.verifyOTPFn != nil {
		return m.verifyOTPFn(email, code)
	}
	return nil
}

func (m *mockOTPService) ConsumeVerifiedOTP(email, code string) (*models.User, error) {
	if m.consumeVerifiedOTPFn != nil {
		return m.consumeVerifiedOTPFn(email, code)
	}
	return &models.User{}, nil
}

type mockAuditService struct{}

func (m *mockAuditService) Log(_, _, _, _, _ string, _ map[string]interface{}) {}

var (
	_ services.UserServicer  = (*mockUserService)(nil)
	_ services.OTPServicer   = (*mockOTPService)(nil)
	_ services.AuditServicer = (*mockAuditService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.RefreshToken)
	r.POST("/auth/password-reset", handler.RequestPasswordReset)
	r.POST("/auth/password-reset/verify", handler.VerifyResetOTP)
	r.POST("/auth/password-reset/confirm", handler.ResetPassword)
	r.GET("/auth/profile", injectUserID("user-1"), handler.GetProfile)
	r.POST("/auth/change-password", injectUserID("user-1"), handler.ChangePassword)
	return r
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, _, firstName, lastName string) (*models.User, error) {
				return &models.User{
					Base:      models.Base{ID: "user-1"},
					Email:     email,
					FirstName: firstName,
					LastName:  lastName,
				}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"test@example.com","password":"password123","first_name":"John","last_name":"Doe"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", user["email"])
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"password":"password123","first_name":"John","last_name":"Doe"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"test@example.com","password":"short","first_name":"John","last_name":"Doe"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"dup@example.com","password":"password123","first_name":"John","last_name":"Doe"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns tokens on success", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: "user-1"}, Email: email}, nil
			},
			storeRefreshTokenHashFn: func(_, tokenHash string) error {
				storedHash = tokenHash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == nil || result["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
		refreshToken, _ := result["refresh_token"].(string)
		if refreshToken == "" {
			t.Fatal("expected non-empty refresh_token")
		}
		if storedHash != middleware.HashToken(refreshToken) {
			t.Error("stored hash should match the issued refresh token")
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 423 when the account is locked", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrAccountLocked
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusLocked {
			t.Fatalf("expected 423, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("rotates the token pair", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: "user-1"}, Email: "test@example.com"}
		refreshToken, err := middleware.GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		var rotatedHash string
		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(_ string) (string, error) {
				return middleware.HashToken(refreshToken), nil
			},
			getUserByIDFn: func(id string) (*models.User, error) { return user, nil },
			storeRefreshTokenHashFn: func(_, tokenHash string) error {
				rotatedHash = tokenHash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+refreshToken+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		newToken, _ := result["refresh_token"].(string)
		if newToken == "" {
			t.Fatal("expected a new refresh token")
		}
		if rotatedHash != middleware.HashToken(newToken) {
			t.Error("rotation should store the new token hash")
		}
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: "user-1"}, Email: "test@example.com"}
		refreshToken, err := middleware.GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(_ string) (string, error) {
				return "hash-of-some-newer-token", nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+refreshToken+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: "user-1"}, Email: "test@example.com"}
		accessToken, err := middleware.GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		handler := NewAuthHandler(&mockUserService{}, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+accessToken+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("request always returns 200", func(t *testing.T) {
		otpSvc := &mockOTPService{
			requestResetFn: func(_ string) error { return apperrors.ErrUserNotFound },
		}
		handler := NewAuthHandler(&mockUserService{}, otpSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		// An unknown email must not be distinguishable from a known one.
		rec := doRequest(r, "POST", "/auth/password-reset", `{"email":"ghost@example.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("verify rejects a malformed code", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/password-reset/verify", `{"email":"test@example.com","code":"12ab56"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("verify returns 400 on wrong code", func(t *testing.T) {
		otpSvc := &mockOTPService{
			verifyOTPFn: func(_, _ string) error { return apperrors.ErrInvalidOTP },
		}
		handler := NewAuthHandler(&mockUserService{}, otpSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/password-reset/verify", `{"email":"test@example.com","code":"123456"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_OTP")
	})

	t.Run("confirm resets the password", func(t *testing.T) {
		var resetUserID string
		otpSvc := &mockOTPService{
			consumeVerifiedOTPFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: "user-1"}, Email: email}, nil
			},
		}
		userSvc := &mockUserService{
			resetPasswordFn: func(userID, _ string) error {
				resetUserID = userID
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, otpSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/password-reset/confirm",
			`{"email":"test@example.com","code":"123456","new_password":"newpassword456"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resetUserID != "user-1" {
			t.Errorf("expected reset for user-1, got %q", resetUserID)
		}
	})

	t.Run("confirm refuses an unverified code", func(t *testing.T) {
		otpSvc := &mockOTPService{
			consumeVerifiedOTPFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrOTPNotVerified
			},
		}
		handler := NewAuthHandler(&mockUserService{}, otpSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/password-reset/confirm",
			`{"email":"test@example.com","code":"123456","new_password":"newpassword456"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "OTP_NOT_VERIFIED")
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	userSvc := &mockUserService{
		getUserByIDFn: func(id string) (*models.User, error) {
			return &models.User{Base: models.Base{ID: id}, Email: "test@example.com"}, nil
		},
	}
	handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
	r := setupAuthRouter(handler)

	rec := doRequest(r, "GET", "/auth/profile", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["email"] != "test@example.com" {
		t.Errorf("expected test@example.com, got %v", result["email"])
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/change-password",
			`{"old_password":"password123","new_password":"newpassword456"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on wrong old password", func(t *testing.T) {
		userSvc := &mockUserService{
			changePasswordFn: func(_, _, _ string) error { return apperrors.ErrWrongPassword },
		}
		handler := NewAuthHandler(userSvc, &mockOTPService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/change-password",
			`{"old_password":"wrong","new_password":"newpassword456"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "WRONG_PASSWORD")
	})
}
