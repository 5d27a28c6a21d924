package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tempizhere/docstore/internal/config"
	"github.com/tempizhere/docstore/internal/models"
	"github.com/tempizhere/docstore/internal/repository"
	"github.com/tempizhere/docstore/internal/service"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "secret"
)

// newTestRouter собирает полный HTTP-стек поверх хранилища в памяти
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		AdminUser:     testAdminUser,
		AdminPassword: testAdminPassword,
		TrustedSubnet: "192.168.1.0/24",
	}
	repo := repository.NewMemoryRepository()
	svc := service.NewService(repo)
	a := NewApp(svc, nil, zap.NewNop())
	return NewRouter(a, cfg, zap.NewNop())
}

// doRequest выполняет запрос к маршрутизатору, при admin добавляет учётные данные
func doRequest(t *testing.T, router http.Handler, method, target, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.SetBasicAuth(testAdminUser, testAdminPassword)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createPackageBody(name string) string {
	return fmt.Sprintf(`{
		"name": %q,
		"homepage": "https://disnake.dev/",
		"programming_language": "python",
		"sources": [
			{
				"inventory_url": "https://docs.disnake.dev/en/stable/objects.inv",
				"version": "2.7.0",
				"language_code": "en-GB",
				"default": true
			}
		]
	}`, name)
}

func TestHandleRoot(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/", "", false)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/api/", w.Header().Get("Location"))
}

func TestHandleMeta(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var meta MetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, serviceName, meta.Name)
	assert.Equal(t, serviceVersion, meta.Version)
}

func TestHandlePing_WithoutDatabase(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/ping", "", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlePing_WithDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
	}{
		{
			name:           "database reachable",
			pingErr:        nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "database unreachable",
			pingErr:        errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := repository.NewMockDatabase(ctrl)
			mockDB.EXPECT().Ping().Return(tt.pingErr)

			svc := service.NewService(repository.NewMemoryRepository())
			a := NewApp(svc, mockDB, zap.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			w := httptest.NewRecorder()
			a.HandlePing(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPackageCRUD(t *testing.T) {
	router := newTestRouter(t)

	// Создание пакета с источником
	w := doRequest(t, router, http.MethodPost, "/api/docs/packages", createPackageBody("disnake"), true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "disnake", created.Name)
	require.Len(t, created.Sources, 1)
	assert.Equal(t, "https://docs.disnake.dev/en/stable", created.Sources[0].HumanFriendlyURL)
	assert.True(t, created.Sources[0].Default)

	// Получение по ID и по имени
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/packages/%d", created.ID), "", false)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/docs/packages/name/disnake", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var byName models.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byName))
	assert.Equal(t, created.ID, byName.ID)

	// Частичное обновление: незатронутые поля сохраняются
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/docs/packages/%d", created.ID), `{"name":"disnake2"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	var patched models.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, "disnake2", patched.Name)
	assert.Equal(t, "https://disnake.dev/", patched.Homepage)
	assert.Equal(t, "python", patched.ProgrammingLanguage)

	// Список пакетов
	w = doRequest(t, router, http.MethodGet, "/api/docs/packages", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Sources)

	w = doRequest(t, router, http.MethodGet, "/api/docs/packages?with_sources=true", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Len(t, list[0].Sources, 1)

	// Удаление каскадно убирает источники
	srcID := created.Sources[0].ID
	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/docs/packages/%d", created.ID), "", true)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/packages/%d", created.ID), "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/sources/%d", srcID), "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPackageNotFoundDetail(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/docs/packages/12345", "", false)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No package with id '12345' was found.", resp.Detail)
}

func TestCreatePackage_Validation(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty sources list", func(t *testing.T) {
		body := `{"name":"disnake","homepage":"https://disnake.dev/","programming_language":"python","sources":[]}`
		w := doRequest(t, router, http.MethodPost, "/api/docs/packages", body, true)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Validation failed", resp.Detail)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "sources", resp.Errors[0].Field)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/docs/packages", "{not json", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/docs/packages", createPackageBody("attrs"), true)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, router, http.MethodPost, "/api/docs/packages", createPackageBody("attrs"), true)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	routes := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/docs/packages", createPackageBody("disnake")},
		{http.MethodPatch, "/api/docs/packages/1", `{"name":"x"}`},
		{http.MethodDelete, "/api/docs/packages/1", ""},
		{http.MethodPost, "/api/docs/sources", `{"package_id":1}`},
		{http.MethodPatch, "/api/docs/sources/1", `{"version":"1.0"}`},
		{http.MethodDelete, "/api/docs/sources/1", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			w := doRequest(t, router, rt.method, rt.target, rt.body, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	// Читающие маршруты остаются открытыми
	w := doRequest(t, router, http.MethodGet, "/api/docs/packages", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSourceCRUD(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/docs/packages", createPackageBody("disnake"), true)
	require.Equal(t, http.StatusCreated, w.Code)
	var pkg models.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkg))

	// Создание дополнительного источника
	body := fmt.Sprintf(`{
		"package_id": %d,
		"inventory_url": "https://docs.disnake.dev/ja/stable/objects.inv",
		"language_code": "ja",
		"preview": true
	}`, pkg.ID)
	w = doRequest(t, router, http.MethodPost, "/api/docs/sources", body, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var src models.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &src))
	assert.Equal(t, "https://docs.disnake.dev/ja/stable", src.HumanFriendlyURL)
	assert.True(t, src.Preview)

	// Источник для несуществующего пакета
	w = doRequest(t, router, http.MethodPost, "/api/docs/sources", `{
		"package_id": 999,
		"inventory_url": "https://docs.disnake.dev/ja/stable/objects.inv",
		"language_code": "ja"
	}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Второй источник по умолчанию запрещён
	w = doRequest(t, router, http.MethodPost, "/api/docs/sources", fmt.Sprintf(`{
		"package_id": %d,
		"inventory_url": "https://docs.disnake.dev/fr/stable/objects.inv",
		"language_code": "fr",
		"default": true
	}`, pkg.ID), true)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Получение источника вместе с владеющим пакетом
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/sources/%d", src.ID), "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Package)
	assert.Equal(t, pkg.ID, got.Package.ID)

	// Список источников пакета
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/packages/%d/sources", pkg.ID), "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var sources []models.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sources))
	assert.Len(t, sources, 2)

	// Изменение inventory_url заново выводит человекочитаемый URL
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/docs/sources/%d", src.ID),
		`{"inventory_url":"https://docs.disnake.dev/ja/latest/objects.inv"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https://docs.disnake.dev/ja/latest", got.HumanFriendlyURL)
	assert.Equal(t, "ja", got.LanguageCode)

	// Удаление источника
	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/docs/sources/%d", src.ID), "", true)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/docs/sources/%d", src.ID), "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseID_Bounds(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric id", "/api/docs/packages/abc"},
		{"negative id", "/api/docs/packages/-1"},
		{"id above upper bound", "/api/docs/packages/2147483648"},
		{"id overflowing int64", "/api/docs/packages/99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.target, "", false)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEmptyListsAreJSONArrays(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/docs/packages", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestHandleStats(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/docs/packages", createPackageBody("disnake"), true)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("denied without X-Real-IP", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/internal/stats", "", false)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("denied outside trusted subnet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("allowed inside trusted subnet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
		req.Header.Set("X-Real-IP", "192.168.1.10")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var stats models.Stats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, int64(1), stats.Packages)
		assert.Equal(t, int64(1), stats.Sources)
	})
}
