package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/model"
)

func devModule(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"title":      "Working at Height",
		"s3aa81cf29": auth.DevAccountID,
		"sb25e7d918": "ready",
	}
}

func devSubscription(plan string, modulesUsed int) map[string]interface{} {
	return map[string]interface{}{
		"id":         "sub-1",
		"sf8a3b2c1d": auth.DevAccountID,
		"s1a2b3c4d5": plan,
		"s2b3c4d5e6": "active",
		"s6f7g8h9i0": modulesUsed,
	}
}

// registerModuleRoutes wires the module endpoints behind the development
// account, the way the router does when token verification is disabled.
func registerModuleRoutes(s Server) {
	group := s.Router.Group("/api/modules", auth.Middleware(nil))
	group.GET("/:id", s.GetModule)
	group.POST("", s.AddModule)
	group.GET("/:id/qr", s.GetModuleQRCode)
}

func doJSON(s Server, method, target string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func TestAddModuleDeniedOnFreeTier(t *testing.T) {
	workspace := &fakeWorkspace{
		modules: map[string]map[string]interface{}{"mod-1": devModule("mod-1")},
	}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodPost, "/api/modules", map[string]interface{}{
		"title":            "Second Module",
		"original_content": "raw document text",
		"file_name":        "second.pdf",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	var denial struct {
		Current int `json:"current"`
		Limit   int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &denial))
	assert.Equal(t, 1, denial.Current)
	assert.Equal(t, 1, denial.Limit)

	workspace.mu.Lock()
	defer workspace.mu.Unlock()
	assert.Zero(t, workspace.moduleCreates)
}

func TestAddModuleCreatesAndAccounts(t *testing.T) {
	workspace := &fakeWorkspace{
		modules: map[string]map[string]interface{}{
			"mod-1": devModule("mod-1"),
			"mod-2": devModule("mod-2"),
		},
		subscriptions: []map[string]interface{}{devSubscription(model.PlanStarter, 2)},
	}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodPost, "/api/modules", map[string]interface{}{
		"title":            "Manual Handling",
		"original_content": "raw document text",
		"file_name":        "manual-handling.pdf",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var created model.Module
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, auth.DevAccountID, created.AccountID)
	assert.Equal(t, model.ModuleStatusProcessing, created.Status)

	workspace.mu.Lock()
	defer workspace.mu.Unlock()
	assert.Equal(t, 1, workspace.moduleCreates)

	require.Len(t, workspace.subscriptionPatches, 1)
	assert.Equal(t, float64(3), workspace.subscriptionPatches[0]["s6f7g8h9i0"])
}

func TestAddModuleRejectsIncompletePayload(t *testing.T) {
	workspace := &fakeWorkspace{}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodPost, "/api/modules", map[string]interface{}{
		"title": "No Content",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetModuleHidesForeignRecords(t *testing.T) {
	foreign := devModule("mod-9")
	foreign["s3aa81cf29"] = "someone-else"

	workspace := &fakeWorkspace{
		modules: map[string]map[string]interface{}{"mod-9": foreign},
	}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodGet, "/api/modules/mod-9", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetModuleQRCode(t *testing.T) {
	workspace := &fakeWorkspace{
		modules: map[string]map[string]interface{}{"mod-1": devModule("mod-1")},
	}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	s.FrontendURL = "https://clearproof.example"
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodGet, "/api/modules/mod-1/qr?size=128", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestGetModuleQRCodeRejectsBadSize(t *testing.T) {
	workspace := &fakeWorkspace{
		modules: map[string]map[string]interface{}{"mod-1": devModule("mod-1")},
	}
	s, srv := newTestServer(workspace, t)
	defer srv.Close()
	registerModuleRoutes(s)

	rec := doJSON(s, http.MethodGet, "/api/modules/mod-1/qr?size=16", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
