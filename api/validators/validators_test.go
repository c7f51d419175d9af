package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

type sampleBody struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme","count":2}`))
		var body sampleBody
		require.NoError(t, DecodeJSONBody(req, &body))
		assert.Equal(t, "Acme", body.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		err := DecodeJSONBody(req, &sampleBody{})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme","count":1,"extra":true}`))
		err := DecodeJSONBody(req, &sampleBody{})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("field messages use json names", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":0}`))
		err := DecodeJSONBody(req, &sampleBody{})
		details, ok := pkgerrors.As(err).Details().(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "is required", details["name"])
		assert.Equal(t, "must be greater than 0", details["count"])
	})
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?client=12&bad=-1&from=2025-02-01&when=tomorrow", nil)

	id, err := ParseQueryID(req, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(12), *id)

	id, err = ParseQueryID(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseQueryID(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	date, err := ParseQueryDate(req, "from")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", date.String())

	_, err = ParseQueryDate(req, "when")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestURLParamID(t *testing.T) {
	build := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := URLParamID(build("7"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = URLParamID(build("0"), "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
