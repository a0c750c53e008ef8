package http

import (
	"net/http"
	"regexp"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/auth"
	"github.com/tripnest/tripnest-backend/internal/auth/middleware"
	"github.com/tripnest/tripnest-backend/internal/backend/backendtest"
	"github.com/tripnest/tripnest-backend/internal/todos/repository"
	"github.com/tripnest/tripnest-backend/internal/todos/service"
)

const todoID = "00000000-0000-0000-0000-000000000001"

var todoCols = []string{"id", "user_id", "title", "description", "due_date", "completed", "priority", "related_destination_id", "created_at", "updated_at"}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	f, mock := backendtest.NewFactory(t, backendtest.Identities{
		"ada-session": {ID: "user-1", Email: "ada@example.com"},
	})

	r := gin.New()
	g := r.Group("/api/todos")
	g.Use(auth.WithClient(f), middleware.RequireSession())
	New(service.NewTodoService(repository.NewTodoRepository(), nil)).Register(g)
	return r, mock
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestTodoRoutes_RequireSession(t *testing.T) {
	r, _ := setupRouter(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/todos", nil),
		httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"x"}`)),
		httptest.NewRequest(http.MethodPatch, "/api/todos/t-1", strings.NewReader(`{"completed":true}`)),
		httptest.NewRequest(http.MethodDelete, "/api/todos/t-1", nil),
	} {
		rr := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, req.Method)
	}
}

func TestTodoRoutes_List(t *testing.T) {
	r, mock := setupRouter(t)
	now := time.Now()

	backendtest.ExpectSessionTx(mock, "user-1")
	mock.ExpectQuery(`SELECT (.+) FROM todos`).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow("t-1", "user-1", "Pack", nil, nil, false, "low", nil, now, now))
	mock.ExpectCommit()

	rr := serve(r, backendtest.WithSession(httptest.NewRequest(http.MethodGet, "/api/todos", nil), "ada-session"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Pack"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRoutes_CreateRejectsBadBody(t *testing.T) {
	r, _ := setupRouter(t)

	for _, body := range []string{`{"title":""}`, `{"title":"x","user_id":"user-2"}`, `{"title":"x","priority":"urgent"}`} {
		req := backendtest.WithSession(httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(body)), "ada-session")
		rr := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestTodoRoutes_DeleteMissing(t *testing.T) {
	r, mock := setupRouter(t)

	backendtest.ExpectSessionTx(mock, "user-1")
	mock.ExpectExec(`DELETE FROM todos`).WithArgs(todoID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rr := serve(r, backendtest.WithSession(httptest.NewRequest(http.MethodDelete, "/api/todos/"+todoID, nil), "ada-session"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRoutes_MalformedID(t *testing.T) {
	r, mock := setupRouter(t)

	rr := serve(r, backendtest.WithSession(httptest.NewRequest(http.MethodDelete, "/api/todos/not-a-uuid", nil), "ada-session"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	req := backendtest.WithSession(httptest.NewRequest(http.MethodPatch, "/api/todos/not-a-uuid", strings.NewReader(`{"completed":true}`)), "ada-session")
	rr = serve(r, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRoutes_UpdateClearsDueDate(t *testing.T) {
	r, mock := setupRouter(t)
	now := time.Now()

	backendtest.ExpectSessionTx(mock, "user-1")
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET due_date = $2 WHERE id = $1 RETURNING`)).
		WithArgs(todoID, nil).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(todoID, "user-1", "Pack", nil, nil, false, "low", nil, now, now))
	mock.ExpectCommit()

	req := backendtest.WithSession(httptest.NewRequest(http.MethodPatch, "/api/todos/"+todoID, strings.NewReader(`{"due_date":null}`)), "ada-session")
	rr := serve(r, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"due_date":null`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRoutes_UpdateFailure(t *testing.T) {
	r, mock := setupRouter(t)

	backendtest.ExpectSessionTx(mock, "user-1")
	mock.ExpectQuery(`UPDATE todos`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	req := backendtest.WithSession(httptest.NewRequest(http.MethodPatch, "/api/todos/"+todoID, strings.NewReader(`{"completed":true}`)), "ada-session")
	rr := serve(r, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to update todo"}`, rr.Body.String())
}
