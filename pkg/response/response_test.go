package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lobby-server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestErrorHelpers_StatusMatchesCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		fn   func(*gin.Context, string)
		code int
	}{
		{BadRequest, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tt.fn(c, "msg")

		assert.Equal(t, tt.code, w.Code)
		r := decode(t, w)
		assert.Equal(t, tt.code, r.Code)
		assert.Equal(t, "msg", r.Message)
	}
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessWithMessage(c, "ok", gin.H{"a": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Equal(t, 0, r.Code)
	assert.Equal(t, "ok", r.Message)
}

func TestErrorWithDetails_HiddenOutsideDebug(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ErrorWithDetails(c, http.StatusInternalServerError, "failed", errors.New("db down"))

	assert.Empty(t, decode(t, w).Error)
}

func TestFilterUserInfo_DropsHash(t *testing.T) {
	u := &model.User{ID: 1, Username: "amy", PasswordHash: "$2a$hash", Rating: 10}
	p := FilterUserInfo(u)
	assert.Equal(t, &UserProfile{ID: 1, Username: "amy", Rating: 10}, p)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "password")

	assert.Nil(t, FilterUserInfo(nil))
}

func TestFilterUserList_KeepsOrderAndDuplicates(t *testing.T) {
	users := []model.User{{ID: 2, Username: "b"}, {ID: 1, Username: "a"}, {ID: 2, Username: "b"}}
	profiles := FilterUserList(users)
	require.Len(t, profiles, 3)
	assert.Equal(t, uint(2), profiles[0].ID)
	assert.Equal(t, uint(1), profiles[1].ID)
	assert.Equal(t, uint(2), profiles[2].ID)

	assert.NotNil(t, FilterUserList(nil))
}
