package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/testutil"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/utils"
)

const testSecret = "test-secret"

// newTestApp wires the route table the same way cmd/api does, minus
// redis/websocket/oauth yang butuh network.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	n := notify.New(db, nil, nil)
	lc := lifecycle.New(db, n)

	auth := &handlers.AuthHandler{DB: db, JWTSecret: testSecret, Expires: 60}
	projects := handlers.NewProjectHandler(db, lc)
	proposals := handlers.NewProposalHandler(db, lc)
	times := handlers.NewTimeHandler(db, lc)
	notifications := handlers.NewNotificationHandler(db)
	reviews := handlers.NewReviewHandler(db)

	app := fiber.New()

	app.Post("/api/auth/register", auth.Register)
	app.Post("/api/auth/login", auth.Login)
	app.Post("/api/auth/logout", auth.Logout)

	api := app.Group("/api", middleware.JWTFromCookie(testSecret), middleware.AttachJWTLocals(), middleware.RequireActive(db))

	api.Post("/projects", middleware.RequireRoles("client"), projects.Create)
	api.Patch("/projects/:id", projects.UpdateStatus)
	api.Post("/projects/:id/proposals", middleware.RequireRoles("freelancer"), proposals.Submit)
	api.Get("/projects/:id/proposals", proposals.ListByProject)
	api.Post("/proposals/:id/accept", middleware.RequireRoles("client"), proposals.Accept)
	api.Post("/proposals/:id/reject", middleware.RequireRoles("client"), proposals.Reject)

	api.Post("/time/start", middleware.RequireRoles("freelancer"), times.Start)
	api.Post("/time/stop", middleware.RequireRoles("freelancer"), times.Stop)

	api.Get("/notifications", notifications.List)
	api.Get("/notifications/unread-count", notifications.UnreadCount)
	api.Patch("/notifications/read-all", notifications.MarkAllRead)
	api.Patch("/notifications/:id/read", notifications.MarkRead)

	api.Post("/reviews", reviews.Create)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, as *models.User) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, err := utils.SignJWT(testSecret, as.ID.String(), string(as.Role), 60)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"email":      "jane@example.com",
		"password":   "secret123",
		"first_name": "Jane",
		"last_name":  "Doe",
		"role":       "freelancer",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// session cookie harus ikut di response
	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie && ck.Value != "" {
			found = true
		}
	}
	assert.True(t, found)

	// duplikat email
	resp = doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"email":      "jane@example.com",
		"password":   "secret123",
		"first_name": "Jane",
		"last_name":  "Doe",
		"role":       "freelancer",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginSuspendedAccount(t *testing.T) {
	app, db := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"email":      "sus@example.com",
		"password":   "secret123",
		"first_name": "S",
		"last_name":  "U",
		"role":       "client",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "sus@example.com").
		Update("status", models.UserStatusSuspended).Error)

	resp = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "sus@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/notifications", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSuspendedUserBlockedMidSession(t *testing.T) {
	app, db := newTestApp(t)
	user := testutil.NewUser(t, db, models.RoleClient)

	resp := doJSON(t, app, "GET", "/api/notifications", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// token masih valid, tapi status DB sudah suspended
	require.NoError(t, db.Model(user).Update("status", models.UserStatusSuspended).Error)

	resp = doJSON(t, app, "GET", "/api/notifications", nil, user)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProposalAcceptFlowOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	client := testutil.NewUser(t, db, models.RoleClient)
	stranger := testutil.NewUser(t, db, models.RoleClient)
	freelancer := testutil.NewUser(t, db, models.RoleFreelancer)
	project := testutil.NewProject(t, db, client.ID)

	resp := doJSON(t, app, "POST", "/api/projects/"+project.ID.String()+"/proposals", fiber.Map{
		"cover_letter":    "I build landing pages",
		"proposed_budget": 450,
		"timeline":        "10 days",
	}, freelancer)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	proposalID := body["data"].(map[string]interface{})["id"].(string)

	// client biasa (bukan freelancer) tidak boleh submit
	resp = doJSON(t, app, "POST", "/api/projects/"+project.ID.String()+"/proposals", fiber.Map{
		"cover_letter":    "x",
		"proposed_budget": 1,
		"timeline":        "1 day",
	}, client)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// bukan owner -> 403 forbidden dari service
	resp = doJSON(t, app, "POST", "/api/proposals/"+proposalID+"/accept", nil, stranger)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "forbidden", body["error"])

	// owner accept
	resp = doJSON(t, app, "POST", "/api/proposals/"+proposalID+"/accept", nil, client)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// accept kedua kali -> 409 conflict
	resp = doJSON(t, app, "POST", "/api/proposals/"+proposalID+"/accept", nil, client)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "conflict", body["error"])

	// submit ke project yang sudah in-progress -> 409 invalid_state
	resp = doJSON(t, app, "POST", "/api/projects/"+project.ID.String()+"/proposals", fiber.Map{
		"cover_letter":    "late to the party",
		"proposed_budget": 400,
		"timeline":        "1 week",
	}, freelancer)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "invalid_state", body["error"])
}

func TestTimerEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	client := testutil.NewUser(t, db, models.RoleClient)
	freelancer := testutil.NewUser(t, db, models.RoleFreelancer)
	project := testutil.NewProject(t, db, client.ID)

	resp := doJSON(t, app, "POST", "/api/time/start", fiber.Map{
		"project_id":  project.ID.String(),
		"description": "wiring api",
	}, freelancer)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	entryID := body["data"].(map[string]interface{})["id"].(string)

	// timer kedua ditolak
	resp = doJSON(t, app, "POST", "/api/time/start", fiber.Map{
		"project_id": project.ID.String(),
	}, freelancer)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/time/stop", fiber.Map{
		"time_entry_id": entryID,
	}, freelancer)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// double stop -> 404
	resp = doJSON(t, app, "POST", "/api/time/stop", fiber.Map{
		"time_entry_id": entryID,
	}, freelancer)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	user := testutil.NewUser(t, db, models.RoleClient)
	other := testutil.NewUser(t, db, models.RoleClient)
	n := notify.New(db, nil, nil)

	for i := 0; i < 3; i++ {
		n.Emit(notify.Notice{
			UserID:  user.ID,
			Title:   "New Proposal Received",
			Message: "someone bid",
			Type:    models.NotifProposalReceived,
		})
	}
	n.Emit(notify.Notice{
		UserID:  other.ID,
		Title:   "x",
		Message: "y",
		Type:    models.NotifAdminNotice,
	})

	resp := doJSON(t, app, "GET", "/api/notifications", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	items := body["data"].([]interface{})
	require.Len(t, items, 3) // punya user lain tidak bocor

	resp = doJSON(t, app, "GET", "/api/notifications/unread-count", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.EqualValues(t, 3, body["data"].(map[string]interface{})["count"])

	// mark satu read, idempotent
	id := items[0].(map[string]interface{})["id"].(string)
	resp = doJSON(t, app, "PATCH", "/api/notifications/"+id+"/read", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "PATCH", "/api/notifications/"+id+"/read", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/notifications/unread-count", nil, user)
	body = decode(t, resp)
	assert.EqualValues(t, 2, body["data"].(map[string]interface{})["count"])

	// notifikasi orang lain -> 404
	resp = doJSON(t, app, "PATCH", "/api/notifications/"+id+"/read", nil, other)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "PATCH", "/api/notifications/read-all", nil, user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "GET", "/api/notifications/unread-count", nil, user)
	body = decode(t, resp)
	assert.EqualValues(t, 0, body["data"].(map[string]interface{})["count"])
}

func TestReviewOncePerPair(t *testing.T) {
	app, db := newTestApp(t)
	client := testutil.NewUser(t, db, models.RoleClient)
	freelancer := testutil.NewUser(t, db, models.RoleFreelancer)
	project := testutil.NewProject(t, db, client.ID)

	payload := fiber.Map{
		"project_id":  project.ID.String(),
		"reviewee_id": freelancer.ID.String(),
		"rating":      5,
		"comment":     "great work",
		"review_type": "client-to-freelancer",
	}

	resp := doJSON(t, app, "POST", "/api/reviews", payload, client)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// review kedua untuk pasangan yang sama -> 409
	resp = doJSON(t, app, "POST", "/api/reviews", payload, client)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "conflict", body["error"])

	// arah sebaliknya masih boleh
	reverse := fiber.Map{
		"project_id":  project.ID.String(),
		"reviewee_id": client.ID.String(),
		"rating":      4,
		"comment":     "clear requirements",
		"review_type": "freelancer-to-client",
	}
	resp = doJSON(t, app, "POST", "/api/reviews", reverse, freelancer)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestReviewValidation(t *testing.T) {
	app, db := newTestApp(t)
	client := testutil.NewUser(t, db, models.RoleClient)

	resp := doJSON(t, app, "POST", "/api/reviews", fiber.Map{
		"project_id":  uuid.New().String(),
		"reviewee_id": uuid.New().String(),
		"rating":      6,
		"review_type": "client-to-freelancer",
	}, client)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "invalid_input", body["error"])
}

func TestCompleteProjectOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	client := testutil.NewUser(t, db, models.RoleClient)
	freelancer := testutil.NewUser(t, db, models.RoleFreelancer)
	project := testutil.NewProject(t, db, client.ID)

	resp := doJSON(t, app, "POST", "/api/projects/"+project.ID.String()+"/proposals", fiber.Map{
		"cover_letter":    "hire me",
		"proposed_budget": 500,
		"timeline":        "2 weeks",
	}, freelancer)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	proposalID := decode(t, resp)["data"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, "POST", "/api/proposals/"+proposalID+"/accept", nil, client)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "PATCH", "/api/projects/"+project.ID.String(), fiber.Map{
		"status": "completed",
	}, freelancer)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusCompleted, got.Status)

	// terminal: ulang -> 409
	resp = doJSON(t, app, "PATCH", "/api/projects/"+project.ID.String(), fiber.Map{
		"status": "completed",
	}, freelancer)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
