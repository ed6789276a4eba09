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
	"gorm.io/gorm"
)

func newMovieRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewMovieHandler(db, nil)
	router := gin.New()

	asUser := func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}

	router.GET("/api/movies/:id", handler.GetMovie)
	router.POST("/api/movies", asUser, handler.CreateMovie)
	router.PUT("/api/movies/:id", asUser, handler.UpdateMovie)
	router.DELETE("/api/movies/:id", asUser, handler.DeleteMovie)
	router.POST("/api/movies/:id/poster", asUser, handler.UploadPoster)
	return router
}

func TestCreateMovie_Success(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()
	router := newMovieRouter(db, userID)

	mock.ExpectQuery(`INSERT INTO "movies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	body, _ := json.Marshal(gin.H{
		"title":        "The Matrix",
		"description":  "A hacker discovers reality is a simulation.",
		"release_date": "1999-03-31",
		"director":     "The Wachowskis",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/movies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Movie added successfully")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMovie_BadDate(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMovieRouter(db, uuid.New())

	body, _ := json.Marshal(gin.H{
		"title":        "The Matrix",
		"release_date": "31/03/1999",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/movies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date format")
}

func TestUpdateMovie_NotCreator(t *testing.T) {
	db, mock := newMockDB(t)
	movieID := uuid.New()
	creatorID := uuid.New()
	router := newMovieRouter(db, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "movies" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "user_id"}).
			AddRow(movieID, "The Matrix", creatorID))

	body, _ := json.Marshal(gin.H{"title": "Hijacked"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/movies/"+movieID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only the creator")
}

func TestDeleteMovie_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	router := newMovieRouter(db, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "movies" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/movies/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMovie_BadID(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMovieRouter(db, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/movies/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadPoster_MediaUnavailable(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMovieRouter(db, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/movies/"+uuid.NewString()+"/poster", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
