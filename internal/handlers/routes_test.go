package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"people-api/internal/models"
	"people-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(service services.PersonService) *gin.Engine {
	return NewRouter(&RouterConfig{
		PersonService: service,
		Logger:        quietLogger(),
	})
}

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouteTable_AddAndList(t *testing.T) {
	router := newTestRouter(newTestService(t))

	w := serve(router, http.MethodGet, "/people", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(router, http.MethodPost, "/people", `{"firstName":"Grace","lastName":"Hopper"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(router, http.MethodPost, "/people", `{"id":50,"firstName":"Alan","lastName":"Turing"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/people", "")
	require.Equal(t, http.StatusOK, w.Code)

	var people []models.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &people))
	require.Len(t, people, 2)
	assert.Equal(t, "Grace", people[0].FirstName)
	assert.Equal(t, models.Person{ID: 50, FirstName: "Alan", LastName: "Turing"}, people[1])
}

func TestRouteTable_Errors(t *testing.T) {
	router := newTestRouter(newTestService(t))

	w := serve(router, http.MethodPost, "/people", `{"firstName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodPost, "/people", `{"id":1,"firstName":"Ada"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(router, http.MethodPost, "/people", `{"id":1,"firstName":"Ada"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(router, http.MethodDelete, "/people", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = serve(router, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteTable_DatastoreFailure(t *testing.T) {
	router := newTestRouter(failingService{})

	w := serve(router, http.MethodGet, "/people", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to list people", body.Error)

	w = serve(router, http.MethodPost, "/people", `{"firstName":"Ada"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFunctionSurfaceOverHTTP(t *testing.T) {
	router := newTestRouter(newTestService(t))

	w := serve(router, http.MethodPost, "/api/people", `{"firstName":"Ada","lastName":"Lovelace"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var created models.PersonDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	w = serve(router, http.MethodGet, "/api/people?id="+strconv.Itoa(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+strconv.Itoa(created.ID)+`,"firstName":"Ada","lastName":"Lovelace"}`, w.Body.String())

	w = serve(router, http.MethodGet, "/api/people?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodPatch, "/api/people", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, AllowedMethods, w.Header().Get("Allow"))

	w = serve(router, http.MethodDelete, "/api/people?id="+strconv.Itoa(created.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(router, http.MethodGet, "/api/people?id="+strconv.Itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestFunctionSurfaceMatchesDispatcher(t *testing.T) {
	router := newTestRouter(newTestService(t))

	w := serve(router, http.MethodPost, "/people", `{"firstName":"Ada","lastName":"Lovelace"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/people?id=", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	for _, method := range []string{http.MethodOptions, "BREW"} {
		w = serve(router, method, "/api/people", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, AllowedMethods, w.Header().Get("Allow"), method)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/people", strings.NewReader(`{"firstName":"Grace"}`))
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unsupported Content-Type", body.Error)

	w = serve(router, http.MethodOptions, "/people", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "route table keeps answering CORS preflight")
}

func TestHealthEndpoint(t *testing.T) {
	w := serve(newTestRouter(newTestService(t)), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = serve(newTestRouter(failingService{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"unhealthy"`)
}

func TestSwaggerDocRegistered(t *testing.T) {
	w := serve(newTestRouter(failingService{}), http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/people")
}
