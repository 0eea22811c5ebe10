package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *application.Error
		want int
	}{
		{application.ErrEmailTaken, http.StatusConflict},
		{application.ErrWeakPassword.WithMessage("too short"), http.StatusUnprocessableEntity},
		{application.ErrPasswordNotSet, http.StatusBadRequest},
		{application.ErrUnknownUser, http.StatusBadRequest},
		{application.ErrNotActivated, http.StatusForbidden},
		{application.ErrInvalidCredentials, http.StatusForbidden},
		{application.ErrAlreadyActivated, http.StatusForbidden},
		{application.ErrTokenExpired, http.StatusBadRequest},
		{application.ErrTokenRevoked, http.StatusUnauthorized},
		{application.ErrOrderNotFound, http.StatusNotFound},
		{application.ErrPizzaNotFound, http.StatusNotFound},
		{application.ErrForbidden, http.StatusForbidden},
		{application.ErrFeatureUnavailable, http.StatusServiceUnavailable},
		{application.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteErrorHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(c, helpers.NewDiscardLogger(), errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	var body struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Status)
	assert.Equal(t, application.ErrInternal.Code, body.Error.Code)
	assert.True(t, c.IsAborted())
}
