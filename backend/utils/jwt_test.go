package utils_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpath/backend/config"
	"skillpath/backend/utils"
)

func parseClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestGenerateJWTTokenExpiryFromConfig(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", JWTExpiryHours: 2}

	tokenString, err := utils.GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	claims := parseClaims(t, tokenString, cfg.JWTSecret)
	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, time.Minute)
	assert.Equal(t, float64(42), claims["user_id"])
}

func TestGenerateJWTTokenDefaultExpiry(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	tokenString, err := utils.GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	claims := parseClaims(t, tokenString, cfg.JWTSecret)
	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), exp, time.Minute)
}

func TestExtractUserIDFromToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", JWTExpiryHours: 1}

	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})

	tokenString, err := utils.GenerateJWTToken(7, cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", tokenString)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["user_id"])

	// Missing and garbage tokens are rejected.
	req = httptest.NewRequest("GET", "/whoami", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
