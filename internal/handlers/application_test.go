package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

func newApplicationsRouter(h *Applications) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/requestblogger/apply", h.Apply)
	r.Get("/api/requestblogger/mine", h.Mine)
	r.Get("/api/requestblogger/pending", h.ListPending)
	r.Post("/api/requestblogger/{applicationId}/review", h.Review)
	return r
}

func apply(t *testing.T, router chi.Router, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/apply", jsonBody(t, map[string]string{
		"motivation":   "I write a lot and would like to publish here.",
		"portfolioUrl": "https://example.com/portfolio",
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, userID, models.RoleReader))
	return rec
}

func TestApply(t *testing.T) {
	apps := newFakeAppStore()
	router := newApplicationsRouter(NewApplications(apps, newFakeUserStore()))
	userID := uuid.New()

	rec := apply(t, router, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body)
	}
	var app models.BloggerApplication
	decodeBody(t, rec, &app)
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("status: got %q, want pending", app.Status)
	}
	if app.UserID != userID {
		t.Errorf("userId: got %s", app.UserID)
	}
}

func TestApply_DuplicateConflicts(t *testing.T) {
	apps := newFakeAppStore()
	router := newApplicationsRouter(NewApplications(apps, newFakeUserStore()))
	userID := uuid.New()

	apply(t, router, userID)
	rec := apply(t, router, userID)
	if rec.Code != http.StatusConflict {
		t.Errorf("second apply: got %d, want 409", rec.Code)
	}
}

func TestApply_EmptyMotivation(t *testing.T) {
	apps := newFakeAppStore()
	router := newApplicationsRouter(NewApplications(apps, newFakeUserStore()))

	req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/apply", jsonBody(t, map[string]string{
		"motivation": "   ",
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleReader))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestApplicationMine(t *testing.T) {
	apps := newFakeAppStore()
	router := newApplicationsRouter(NewApplications(apps, newFakeUserStore()))
	userID := uuid.New()
	apply(t, router, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/requestblogger/mine", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, userID, models.RoleReader))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	// No application yet for someone else.
	req = httptest.NewRequest(http.MethodGet, "/api/requestblogger/mine", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleReader))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestApplicationListPending_AdminOnly(t *testing.T) {
	apps := newFakeAppStore()
	router := newApplicationsRouter(NewApplications(apps, newFakeUserStore()))
	apply(t, router, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/requestblogger/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleAuthor))
	if rec.Code != http.StatusForbidden {
		t.Errorf("author listing pending: got %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/requestblogger/pending", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin listing pending: got %d, want 200", rec.Code)
	}
	var pending []models.BloggerApplication
	decodeBody(t, rec, &pending)
	if len(pending) != 1 {
		t.Errorf("pending: got %d, want 1", len(pending))
	}
}

func TestApplicationReview(t *testing.T) {
	apps := newFakeAppStore()
	users := newFakeUserStore()
	router := newApplicationsRouter(NewApplications(apps, users))

	applicant := seedUser(t, users, models.RoleReader)
	rec := apply(t, router, applicant.ID)
	var app models.BloggerApplication
	decodeBody(t, rec, &app)

	t.Run("non-admin forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/"+app.ID.String()+"/review",
			jsonBody(t, map[string]bool{"approve": true}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asActor(req, applicant.ID, models.RoleReader))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rec.Code)
		}
	})

	t.Run("approval promotes applicant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/"+app.ID.String()+"/review",
			jsonBody(t, map[string]bool{"approve": true}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleAdmin))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body)
		}
		var reviewed models.BloggerApplication
		decodeBody(t, rec, &reviewed)
		if reviewed.Status != models.ApplicationStatusApproved {
			t.Errorf("status: got %q, want approved", reviewed.Status)
		}

		user, _ := users.FindByID(context.Background(), applicant.ID)
		if user.Role != models.RoleAuthor {
			t.Errorf("applicant role: got %q, want author", user.Role)
		}
	})

	t.Run("unknown application", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/"+uuid.NewString()+"/review",
			jsonBody(t, map[string]bool{"approve": false}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleAdmin))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}

func TestApplicationRejection(t *testing.T) {
	apps := newFakeAppStore()
	users := newFakeUserStore()
	router := newApplicationsRouter(NewApplications(apps, users))

	applicant := seedUser(t, users, models.RoleReader)
	rec := apply(t, router, applicant.ID)
	var app models.BloggerApplication
	decodeBody(t, rec, &app)

	req := httptest.NewRequest(http.MethodPost, "/api/requestblogger/"+app.ID.String()+"/review",
		jsonBody(t, map[string]bool{"approve": false}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, asActor(req, uuid.New(), models.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	user, _ := users.FindByID(context.Background(), applicant.ID)
	if user.Role != models.RoleReader {
		t.Errorf("rejected applicant role changed: %q", user.Role)
	}
}
