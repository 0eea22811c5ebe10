package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/pkg/response"
)

// statusByCode overrides the per-kind default for specific error codes.
var statusByCode = map[string]int{
	application.ErrEmailTaken.Code:         http.StatusConflict,
	application.ErrWeakPassword.Code:       http.StatusUnprocessableEntity,
	application.ErrPasswordNotSet.Code:     http.StatusBadRequest,
	application.ErrInvalidPayload.Code:     http.StatusBadRequest,
	application.ErrUnknownUser.Code:        http.StatusBadRequest,
	application.ErrNotActivated.Code:       http.StatusForbidden,
	application.ErrInvalidCredentials.Code: http.StatusForbidden,
	application.ErrAlreadyActivated.Code:   http.StatusForbidden,

	application.ErrTokenExpired.Code:           http.StatusBadRequest,
	application.ErrTokenInvalid.Code:           http.StatusBadRequest,
	application.ErrTokenWrongPurpose.Code:      http.StatusBadRequest,
	application.ErrTokenMissingSubject.Code:    http.StatusBadRequest,
	application.ErrInvalidActivationToken.Code: http.StatusBadRequest,
	application.ErrInvalidResetToken.Code:      http.StatusBadRequest,
	application.ErrInvalidRefreshToken.Code:    http.StatusBadRequest,
	application.ErrTokenRevoked.Code:           http.StatusUnauthorized,
	application.ErrUnauthenticated.Code:        http.StatusUnauthorized,
}

var statusByKind = map[application.Kind]int{
	application.KindValidation:  http.StatusBadRequest,
	application.KindConflict:    http.StatusConflict,
	application.KindAuth:        http.StatusUnauthorized,
	application.KindForbidden:   http.StatusForbidden,
	application.KindNotFound:    http.StatusNotFound,
	application.KindUnavailable: http.StatusServiceUnavailable,
	application.KindInternal:    http.StatusInternalServerError,
}

// StatusFor returns the HTTP status an application error is reported with.
func StatusFor(e *application.Error) int {
	if code, ok := statusByCode[e.Code]; ok {
		return code
	}
	if code, ok := statusByKind[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// WriteError aborts the request with the envelope for err. Internal failures
// are logged with their cause and answered with a generic message.
func WriteError(c *gin.Context, logger *logrus.Logger, err error) {
	e := application.AsError(err)
	status := StatusFor(e)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, status, e.Message, gin.H{"code": e.Code})
}

func invalidPayload(c *gin.Context, details interface{}) {
	response.Error(c, http.StatusBadRequest, application.ErrInvalidPayload.Message, details)
}
