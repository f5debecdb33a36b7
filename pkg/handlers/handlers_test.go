package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-api/pkg/auth"
	"library-api/pkg/config"
	"library-api/pkg/database"
	"library-api/pkg/models"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: testSecret}
	return New(cfg, db), db
}

func createCustomer(t *testing.T, db *gorm.DB, email string, staff bool) models.Customer {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	customer := models.Customer{
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "Customer",
		IsStaff:   staff,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func createBook(t *testing.T, db *gorm.DB, title string, inventory int) models.Book {
	t.Helper()
	book := models.Book{
		Title:     title,
		Author:    "Test Author",
		Cover:     models.CoverHard,
		Inventory: inventory,
		DailyFee:  1.50,
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}

func tokenFor(t *testing.T, customer models.Customer) string {
	t.Helper()
	token, err := auth.SignToken(auth.Principal{
		UserID:  customer.ID,
		Email:   customer.Email,
		IsStaff: customer.IsStaff,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonBody)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
