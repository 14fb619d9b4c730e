package jwt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lobby-server/config"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: secret, Issuer: "lobby-test", ExpireTime: time.Hour})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService("secret")

	token, err := svc.GenerateToken(7, "amy", 10)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "amy", claims.Username)
	assert.Equal(t, 10, claims.Rating)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "lobby-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateToken_RequiresUserID(t *testing.T) {
	_, err := newService("secret").GenerateToken(0, "amy", 0)
	assert.Error(t, err)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newService("secret")

	expired, err := svc.GenerateTokenWithExpiry(1, "amy", 0, -time.Minute)
	require.NoError(t, err)

	otherKey, err := newService("other").GenerateToken(1, "amy", 0)
	require.NoError(t, err)

	otherIssuer, err := NewJWTService(config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpireTime: time.Hour}).
		GenerateToken(1, "amy", 0)
	require.NoError(t, err)

	none, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"wrong key":    otherKey,
		"wrong issuer": otherIssuer,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newService("secret")
	token, err := svc.GenerateToken(3, "bob", 20)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", svc.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       GetUserID(c),
			"username": GetUsername(c),
		})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"short token", "Bearer x", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)

			if tt.status == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, float64(3), body["id"])
				assert.Equal(t, "bob", body["username"])
			}
		})
	}
}

func TestContextGetters_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetUserID(c))
	assert.Equal(t, "", GetUsername(c))
}
