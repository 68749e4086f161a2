package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodmate/foodmate-golang/internal/handlers"
	"github.com/foodmate/foodmate-golang/internal/models"
)

type authResponse struct {
	User struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func decodeAuth(t *testing.T, body []byte) authResponse {
	t.Helper()
	var response authResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}
	return response
}

func TestRegister(t *testing.T) {
	router, db := setupTestRouter(t)

	t.Run("creates a customer and returns a usable token", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/register",
			handlers.RegisterUserInput{Email: "new@example.com", Password: "password123"}, "")

		assert.Equal(t, http.StatusCreated, recorder.Code)
		response := decodeAuth(t, recorder.Body.Bytes())
		assert.Equal(t, "new@example.com", response.User.Email)
		assert.Equal(t, models.RoleCustomer, response.User.Role)
		assert.NotEmpty(t, response.Token)

		var hash string
		err := db.QueryRow("SELECT password_hash FROM users WHERE email = ?", "new@example.com").Scan(&hash)
		assert.NoError(t, err)
		assert.NotEqual(t, "password123", hash)

		me := performRequest(router, http.MethodGet, "/v1/me", nil, "Bearer "+response.Token)
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("409 for a duplicate email", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/register",
			handlers.RegisterUserInput{Email: "new@example.com", Password: "different456"}, "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM users WHERE email = ?", "new@example.com"))
	})

	t.Run("400 for an invalid email or short password", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/register",
			handlers.RegisterUserInput{Email: "not-an-email", Password: "password123"}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder = performRequest(router, http.MethodPost, "/v1/register",
			handlers.RegisterUserInput{Email: "short@example.com", Password: "abc"}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogin(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "login@example.com", models.RoleCustomer)

	t.Run("valid credentials return the user and a token", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/login",
			handlers.LoginInput{Email: "login@example.com", Password: "password123"}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		response := decodeAuth(t, recorder.Body.Bytes())
		assert.Equal(t, "login@example.com", response.User.Email)
		assert.NotEmpty(t, response.Token)
	})

	t.Run("wrong password is 401 with a generic message", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/login",
			handlers.LoginInput{Email: "login@example.com", Password: "wrongpass"}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		var response map[string]string
		json.Unmarshal(recorder.Body.Bytes(), &response)
		assert.Equal(t, "Invalid email or password", response["error"])
	})

	t.Run("unknown email gets the same 401", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/v1/login",
			handlers.LoginInput{Email: "ghost@example.com", Password: "password123"}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		var response map[string]string
		json.Unmarshal(recorder.Body.Bytes(), &response)
		assert.Equal(t, "Invalid email or password", response["error"])
	})
}

func TestGetMe(t *testing.T) {
	router, db := setupTestRouter(t)
	userID := createTestUser(t, db, "me@example.com", models.RoleCustomer)

	t.Run("returns the authenticated user without the hash", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/me", nil, bearerToken(t, userID))

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			User models.User `json:"user"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, userID, response.User.ID)
		assert.Equal(t, "me@example.com", response.User.Email)
		assert.NotContains(t, recorder.Body.String(), "password_hash")
	})

	t.Run("401 without a token", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("401 with a garbage token", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/me", nil, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
