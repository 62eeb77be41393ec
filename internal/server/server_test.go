package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/review"
	"github.com/sourceplane/imagewizard/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hostedExport = `{"name":"web","distribution":"rhel-9","image_requests":[{"architecture":"x86_64","image_type":"aws","upload_request":{"type":"aws","options":{"share_with_accounts":["123456789012"]}}}]}`

func setupTestServer(t *testing.T, withHistory bool) (*Server, *history.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var store *history.Store
	var hs HistoryStore
	if withHistory {
		var err error
		store, err = history.Open(filepath.Join(t.TempDir(), "history.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		hs = store
	}
	return New(Config{MaxFileSize: 1024}, nil, hs, nil), store
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t, false)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestImportBlueprintJSON(t *testing.T) {
	s, store := setupTestServer(t, true)

	tests := []struct {
		name       string
		body       importRequest
		wantStatus int
		wantOnPrem bool
		wantReason model.FailureReason
	}{
		{
			name:       "hosted export",
			body:       importRequest{Filename: "web.json", Content: hostedExport},
			wantStatus: http.StatusOK,
		},
		{
			name:       "on-premises toml",
			body:       importRequest{Filename: "legacy.toml", Content: "name = \"legacy\"\n"},
			wantStatus: http.StatusOK,
			wantOnPrem: true,
		},
		{
			name:       "unrecognized suffix",
			body:       importRequest{Filename: "notes.txt", Content: "hello"},
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: model.ReasonUnrecognizedFormat,
		},
		{
			name:       "malformed json",
			body:       importRequest{Filename: "broken.json", Content: `{"name":`},
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: model.ReasonInvalidFormat,
		},
		{
			name:       "too large",
			body:       importRequest{Filename: "big.json", Content: strings.Repeat(" ", 2048)},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantReason: model.ReasonRejectedFile,
		},
		{
			name:       "empty content",
			body:       importRequest{Filename: "empty.json"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/v1/blueprints/import", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				var resp importResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.NotNil(t, resp.Blueprint)
				assert.Equal(t, tt.wantOnPrem, resp.IsOnPrem)
				assert.NotEmpty(t, resp.RecordID)
				return
			}
			if tt.wantReason != "" {
				assert.Equal(t, string(tt.wantReason), decode(t, w)["reason"])
			}
		})
	}

	records, err := store.List(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestImportBlueprintMultipart(t *testing.T) {
	s, _ := setupTestServer(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "web.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(hostedExport))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/blueprints/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp importResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "web", resp.Blueprint.Details.BlueprintName)
	assert.Equal(t, []string{model.ImageTypeAWS}, resp.Blueprint.ImageTypes)
	assert.Empty(t, resp.RecordID)
}

func TestSteps(t *testing.T) {
	s, _ := setupTestServer(t, false)

	w := doJSON(t, s, http.MethodPost, "/api/v1/wizard/steps", stepsRequest{Steps: []steps.Step{
		{ID: "a"}, {ID: "b", Invalid: true}, {ID: "c"},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Validation   steps.Result `json:"validation"`
		FirstBlocked steps.StepID `json:"first_blocked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, steps.Validation{}, resp.Validation["a"])
	assert.Equal(t, steps.Validation{DisableNext: true}, resp.Validation["b"])
	assert.Equal(t, steps.Validation{DisableNext: true, DisableStep: true}, resp.Validation["c"])
	assert.Equal(t, steps.StepID("b"), resp.FirstBlocked)
}

func TestStepsFromState(t *testing.T) {
	s, _ := setupTestServer(t, false)
	state := &model.WizardState{StepValidations: map[string]model.ValidationStatus{
		model.StepFileSystem: model.StatusError,
	}}

	w := doJSON(t, s, http.MethodPost, "/api/v1/wizard/steps", stepsRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Validation steps.Result `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Validation[steps.FileSystem].DisableNext)
	assert.True(t, resp.Validation[steps.Review].DisableStep)

	w = doJSON(t, s, http.MethodPost, "/api/v1/wizard/steps", stepsRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReview(t *testing.T) {
	s, _ := setupTestServer(t, false)
	state := &model.WizardState{
		Distribution: "rhel-9",
		Architecture: model.ArchX86_64,
		Details:      model.Details{BlueprintName: "web"},
	}

	w := doJSON(t, s, http.MethodPost, "/api/v1/wizard/review", wizardRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sections []review.Section `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	details, err := review.Find(resp.Sections, review.SectionImageDetails)
	require.NoError(t, err)
	assert.Equal(t, "web", details.Items[0].Description)

	w = doJSON(t, s, http.MethodPost, "/api/v1/wizard/review", wizardRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidate(t *testing.T) {
	s, _ := setupTestServer(t, false)
	state := &model.WizardState{FileSystem: model.FileSystem{
		Mode: model.FileSystemManual,
		Partitions: []model.Partition{
			{Mountpoint: "/var", MinSize: 1, Unit: model.UnitGiB},
			{Mountpoint: "/var", MinSize: 2, Unit: model.UnitGiB},
		},
	}}

	w := doJSON(t, s, http.MethodPost, "/api/v1/wizard/validate", wizardRequest{State: state})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["valid"])
	assert.NotEmpty(t, resp["errors"])
}

func TestImportHistoryEndpoints(t *testing.T) {
	s, _ := setupTestServer(t, true)

	w := doJSON(t, s, http.MethodPost, "/api/v1/blueprints/import", importRequest{Filename: "web.json", Content: hostedExport})
	require.Equal(t, http.StatusOK, w.Code)
	var imported importResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))

	w = doJSON(t, s, http.MethodGet, "/api/v1/imports/"+imported.RecordID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec history.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "web", rec.BlueprintName)
	assert.Equal(t, history.StatusSuccess, rec.Status)

	w = doJSON(t, s, http.MethodGet, "/api/v1/imports?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/imports?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/imports/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportHistoryDisabled(t *testing.T) {
	s, _ := setupTestServer(t, false)
	w := doJSON(t, s, http.MethodGet, "/api/v1/imports", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(Config{AllowOrigins: []string{"http://localhost:1337"}}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/blueprints/import", nil)
	req.Header.Set("Origin", "http://localhost:1337")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:1337", w.Header().Get("Access-Control-Allow-Origin"))
}
