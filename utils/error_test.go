package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"salonbook/models"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)
	return w
}

func TestRespondErrorStatusMapping(t *testing.T) {
	date, _ := models.ParseDate("2025-08-18")

	cases := map[string]struct {
		err    error
		status int
	}{
		"validation": {models.NewValidationError("phone", "bad"), http.StatusUnprocessableEntity},
		"conflict":   {&models.ConflictError{Date: date, Time: "10:00"}, http.StatusConflict},
		"state":      {&models.StateError{ID: "r1", Status: models.StatusApproved}, http.StatusConflict},
		"not found":  {&models.NotFoundError{Kind: "request", ID: "r1"}, http.StatusNotFound},
		"permission": {&models.PermissionError{}, http.StatusForbidden},
		"timeout":    {&models.TimeoutError{Op: "approve", Err: errors.New("deadline")}, http.StatusGatewayTimeout},
		"store":      {&models.StoreError{Op: "approve", Err: errors.New("boom")}, http.StatusBadGateway},
		"unknown":    {errors.New("surprise"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := respond(tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRespondErrorUnwrapsWrappedErrors(t *testing.T) {
	date, _ := models.ParseDate("2025-08-18")
	wrapped := &models.StoreError{
		Op:  "approve booking request",
		Err: &models.ConflictError{Date: date, Time: "10:00"},
	}

	// A conflict stays a conflict even when a store layer wrapped it.
	w := respond(wrapped)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondErrorValidationBody(t *testing.T) {
	w := respond(models.NewValidationError("phone", "phone must have 10 or 11 digits"))
	assert.Contains(t, w.Body.String(), "phone")
	assert.Contains(t, w.Body.String(), "10 or 11 digits")
}
