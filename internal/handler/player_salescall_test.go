package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/repository"
)

func TestCardErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown card", repository.ErrCardNotFound, http.StatusNotFound},
		{"committed card rejection refused", repository.ErrForbidden, http.StatusForbidden},
		{"card already handled", repository.ErrConflict, http.StatusConflict},
		{"backend failure", errors.New("db gone"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", nil)
			rec := httptest.NewRecorder()
			require.NoError(t, cardError(e.NewContext(req, rec), tc.err))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
