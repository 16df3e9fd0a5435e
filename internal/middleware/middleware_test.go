package middleware

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourops/internal/database"
	"tourops/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRow(id int64, email, passwordHash string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"user_id", "email", "password_hash", "first_name", "surname",
		"registered_at", "is_active", "last_logged_in",
	}).AddRow(id, email, passwordHash, "Aizhan", "Satybaldy", now, active, now)
}

func authRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	userRepo := repository.NewUserRepository(&database.DB{DB: mockDB})

	router := gin.New()
	router.Use(BasicAuth(userRepo, nil))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router, mock
}

func TestBasicAuthAcceptsActiveUser(t *testing.T) {
	router, mock := authRouter(t)

	hash := sha256.Sum256([]byte("secret"))
	mock.ExpectQuery("SELECT user_id, email, password_hash").WithArgs("ops@example.com").
		WillReturnRows(userRow(9, "ops@example.com", fmt.Sprintf("%x", hash), true))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.SetBasicAuth("ops@example.com", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicAuthRejectsDeactivatedUser(t *testing.T) {
	router, mock := authRouter(t)

	hash := sha256.Sum256([]byte("secret"))
	mock.ExpectQuery("SELECT user_id, email, password_hash").WithArgs("ops@example.com").
		WillReturnRows(userRow(9, "ops@example.com", fmt.Sprintf("%x", hash), false))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.SetBasicAuth("ops@example.com", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicAuthRejectsWrongPassword(t *testing.T) {
	router, mock := authRouter(t)

	hash := sha256.Sum256([]byte("secret"))
	mock.ExpectQuery("SELECT user_id, email, password_hash").WithArgs("ops@example.com").
		WillReturnRows(userRow(9, "ops@example.com", fmt.Sprintf("%x", hash), true))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.SetBasicAuth("ops@example.com", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
