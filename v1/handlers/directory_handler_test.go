package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/mlg-/factory-girl-book-club/config"
	"github.com/mlg-/factory-girl-book-club/v1/database"
	"github.com/mlg-/factory-girl-book-club/v1/models"
	"github.com/mlg-/factory-girl-book-club/v1/services"
	"github.com/mlg-/factory-girl-book-club/v1/testutil"
	"github.com/mlg-/factory-girl-book-club/v1/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandler(t *testing.T, repo database.DirectoryRepository) *DirectoryHandler {
	t.Helper()
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	return NewDirectoryHandler(services.NewDirectoryService(repo, config.DefaultLabels), renderer)
}

// withID simulates chi's {id} URL parameter
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListMembers(t *testing.T) {
	repo := testutil.NewMockRepository()
	ctx := context.Background()
	_, err := repo.CreateMember(ctx, &models.Member{FirstName: "Emily", LastName: "Dickinson", Email: "emily@amherst.edu"})
	require.NoError(t, err)
	_, err = repo.CreateMember(ctx, &models.Member{FirstName: "Walt", LastName: "Whitman", Email: "walt@leaves.org"})
	require.NoError(t, err)

	handler := newHandler(t, repo)
	rr := httptest.NewRecorder()
	handler.ListMembers(rr, httptest.NewRequest(http.MethodGet, "/members", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "All Book Club Members")
	for _, want := range []string{"Emily", "Dickinson", "Emily Dickinson", "emily@amherst.edu", "Walt Whitman", "walt@leaves.org"} {
		assert.Contains(t, body, want)
	}
}

func TestShowBookClub_DeadPoetsSociety(t *testing.T) {
	repo := testutil.NewMockRepository()
	ctx := context.Background()
	club, err := repo.CreateBookClub(ctx, &models.BookClub{Name: "Dead Poets' Society"})
	require.NoError(t, err)

	var plain, leaders []string
	for i := 0; i < 15; i++ {
		first := fmt.Sprintf("Poet%02d", i)
		isLeader := i >= 12
		_, err := repo.CreateMember(ctx, &models.Member{
			FirstName:  first,
			LastName:   "Welton",
			Email:      fmt.Sprintf("poet%02d@welton.edu", i),
			BookClubID: &club.ID,
			Leader:     isLeader,
		})
		require.NoError(t, err)
		if isLeader {
			leaders = append(leaders, first)
		} else {
			plain = append(plain, first)
		}
	}

	handler := newHandler(t, repo)
	rr := httptest.NewRecorder()
	req := withID(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book_clubs/%d", club.ID), nil), fmt.Sprint(club.ID))
	handler.ShowBookClub(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, template.HTMLEscapeString("Dead Poets' Society"))
	require.Len(t, plain, 12)
	for _, first := range plain {
		assert.Contains(t, body, "<li>"+first+"</li>")
		assert.NotContains(t, body, first+" (Leader)")
	}
	require.Len(t, leaders, 3)
	for _, first := range leaders {
		assert.Contains(t, body, first+" (Leader)")
	}
}

func TestShowBookClubLegacy(t *testing.T) {
	repo := testutil.NewMockRepository()
	ctx := context.Background()
	club, err := repo.CreateBookClub(ctx, &models.BookClub{Name: "Transcendentalists"})
	require.NoError(t, err)
	_, err = repo.CreateMember(ctx, &models.Member{FirstName: "Henry", LastName: "Thoreau", Email: "henry@walden.org", BookClubID: &club.ID})
	require.NoError(t, err)
	_, err = repo.CreateMember(ctx, &models.Member{FirstName: "Ralph", LastName: "Emerson", Email: "ralph@concord.org", BookClubID: &club.ID, Leader: true})
	require.NoError(t, err)

	handler := newHandler(t, repo)
	rr := httptest.NewRecorder()
	handler.ShowBookClubLegacy(rr, withID(httptest.NewRequest(http.MethodGet, "/book_club/1", nil), "1"))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Transcendentalists")
	assert.Contains(t, body, "Ralph Emerson, Leader")
	assert.Contains(t, body, "henry@walden.org")
}

func TestShowBookClub_NotFound(t *testing.T) {
	handler := newHandler(t, testutil.NewMockRepository())

	tests := []struct {
		name string
		id   string
	}{
		{"nonexistent id", "42"},
		{"non-numeric id", "abc"},
		{"zero id", "0"},
		{"negative id", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ShowBookClub(rr, withID(httptest.NewRequest(http.MethodGet, "/book_clubs/"+tt.id, nil), tt.id))
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "Not Found")

			rr = httptest.NewRecorder()
			handler.ShowBookClubLegacy(rr, withID(httptest.NewRequest(http.MethodGet, "/book_club/"+tt.id, nil), tt.id))
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestShowBookClub_DanglingMembersDoNotCrash(t *testing.T) {
	repo := testutil.NewMockRepository()
	ctx := context.Background()
	deleted := uint(77)
	_, err := repo.CreateMember(ctx, &models.Member{FirstName: "Orphan", LastName: "Reader", Email: "orphan@example.com", BookClubID: &deleted})
	require.NoError(t, err)

	handler := newHandler(t, repo)
	rr := httptest.NewRecorder()
	handler.ShowBookClub(rr, withID(httptest.NewRequest(http.MethodGet, "/book_clubs/77", nil), "77"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	handler.ListMembers(rr, httptest.NewRequest(http.MethodGet, "/members", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Orphan Reader")
}

func TestListPokemasters(t *testing.T) {
	repo := testutil.NewMockRepository()
	ctx := context.Background()
	email := "pokemaster1@gmail.com"
	ash, err := repo.CreatePokemaster(ctx, &models.Pokemaster{Name: "Ash", Email: &email})
	require.NoError(t, err)
	_, err = repo.CreatePokemon(ctx, &models.Pokemon{Name: "Bulbasaur", PokemasterID: &ash.ID})
	require.NoError(t, err)

	handler := newHandler(t, repo)
	rr := httptest.NewRecorder()
	handler.ListPokemasters(rr, httptest.NewRequest(http.MethodGet, "/pokemasters", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Pokemasters Directory")
	assert.Contains(t, body, "Ash")
	assert.Contains(t, body, email)
	assert.Contains(t, body, "Bulbasaur")
}

func TestStorageFailure_Returns500(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.Err = errors.New("connection refused")
	handler := newHandler(t, repo)

	cases := []struct {
		name    string
		serve   http.HandlerFunc
		request *http.Request
	}{
		{"members", handler.ListMembers, httptest.NewRequest(http.MethodGet, "/members", nil)},
		{"book club", handler.ShowBookClub, withID(httptest.NewRequest(http.MethodGet, "/book_clubs/1", nil), "1")},
		{"legacy book club", handler.ShowBookClubLegacy, withID(httptest.NewRequest(http.MethodGet, "/book_club/1", nil), "1")},
		{"pokemasters", handler.ListPokemasters, httptest.NewRequest(http.MethodGet, "/pokemasters", nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.serve(rr, tc.request)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.NotContains(t, rr.Body.String(), "connection refused")
		})
	}
}

func TestStorageFailure_SQLMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "members"`).WillReturnError(errors.New("server closed the connection unexpectedly"))

	handler := newHandler(t, database.NewGormRepository(gormDB))
	rr := httptest.NewRecorder()
	handler.ListMembers(rr, httptest.NewRequest(http.MethodGet, "/members", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		handler := newHandler(t, database.NewGormRepository(testutil.SetupSQLiteTestDB(t)))
		rr := httptest.NewRecorder()
		handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
	})

	t.Run("unhealthy", func(t *testing.T) {
		repo := testutil.NewMockRepository()
		repo.Err = errors.New("database is closed")
		handler := newHandler(t, repo)
		rr := httptest.NewRecorder()
		handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Database)
		assert.Equal(t, "database is closed", status.Error)
	})
}

func TestNotFoundPage(t *testing.T) {
	handler := newHandler(t, testutil.NewMockRepository())
	rr := httptest.NewRecorder()
	handler.NotFound(rr, httptest.NewRequest(http.MethodGet, "/clubs", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "/clubs")
}
