package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	utils "github.com/ThatPopcorn/rateAmovie/shared/utils/auth"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(db)
	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/logout", handler.Logout)
	router.POST("/api/auth/refresh", handler.Refresh)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func expectNoRecentFailures(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "login_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
}

func expectLoginAttemptInsert(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`INSERT INTO "login_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
}

func TestRegister_Success(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "alice@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	w := postJSON(router, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "longenough1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User created successfully")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_WeakPassword(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	// Rejected before any database access
	w := postJSON(router, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 8 characters")
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "alice@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(uuid.New(), "alice", "alice@example.com"))

	w := postJSON(router, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "longenough1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestRegister_UnknownFieldRejected(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	w := postJSON(router, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "longenough1",
		"is_admin": true,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed request")
}

func TestRegister_MissingField(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	w := postJSON(router, "/api/auth/register", gin.H{
		"username": "alice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed request")
}

func TestLogin_Success(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	hash, err := utils.HashPassword("longenough1")
	require.NoError(t, err)
	userID := uuid.New()

	expectNoRecentFailures(mock)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(userID, "alice", "alice@example.com", hash))
	expectLoginAttemptInsert(mock)

	w := postJSON(router, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "longenough1",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, userID.String(), resp.UserID)
	assert.Equal(t, "alice", resp.Username)

	// The minted access token is immediately usable
	claims, err := utils.ValidateAccessJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	hash, err := utils.HashPassword("rightpassword")
	require.NoError(t, err)

	expectNoRecentFailures(mock)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(uuid.New(), "alice", "alice@example.com", hash))
	expectLoginAttemptInsert(mock)

	w := postJSON(router, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	expectNoRecentFailures(mock)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	expectLoginAttemptInsert(mock)

	w := postJSON(router, "/api/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "longenough1",
	})

	// Same response as a wrong password
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestLogin_RateLimited(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "login_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	w := postJSON(router, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "longenough1",
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogout_Success(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	tokenString, err := utils.GenerateAccessJWT(uuid.New(), "alice")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "blacklisted_tokens" WHERE jti =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "jti"}))
	mock.ExpectQuery(`INSERT INTO "blacklisted_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_MissingToken(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Token required")
}

func TestLogout_AlreadyRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	tokenString, err := utils.GenerateAccessJWT(uuid.New(), "alice")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "blacklisted_tokens" WHERE jti =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "jti"}).AddRow(uuid.New(), uuid.NewString()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	// Logging out twice is a no-op failure, not a second revocation
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestLogout_InvalidToken(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRefresh_Success(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	userID := uuid.New()
	refreshToken, err := utils.GenerateRefreshJWT(userID, "alice")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "blacklisted_tokens" WHERE jti =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "jti"}))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(userID, "alice", "alice@example.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	claims, err := utils.ValidateAccessJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db)

	accessToken, err := utils.GenerateAccessJWT(uuid.New(), "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid refresh token")
}

func TestRefresh_RevokedTokenRejected(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	refreshToken, err := utils.GenerateRefreshJWT(uuid.New(), "alice")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "blacklisted_tokens" WHERE jti =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "jti"}).AddRow(uuid.New(), uuid.NewString()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid refresh token")
}
