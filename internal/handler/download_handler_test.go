package handler_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/handler"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadEndpoints(t *testing.T) {
	e := echo.New()
	root := t.TempDir()
	dlHandler := handler.NewDownloadHandler(storage.NewFileStore(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, "report_abc.xlsx"), []byte("workbook bytes"), 0o644))

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if assert.NoError(t, dlHandler.HealthHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("Download existing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/report_abc.xlsx", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("filename")
		c.SetParamValues("report_abc.xlsx")

		if assert.NoError(t, dlHandler.DownloadHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
			assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "report_abc.xlsx")
			assert.Equal(t, "workbook bytes", rec.Body.String())
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/nope.xlsx", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("filename")
		c.SetParamValues("nope.xlsx")

		if assert.NoError(t, dlHandler.DownloadHandler(c)) {
			assert.Equal(t, http.StatusNotFound, rec.Code)
		}
	})

	t.Run("Path traversal rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/x", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("filename")
		c.SetParamValues("../../etc/passwd.xlsx")

		if assert.NoError(t, dlHandler.DownloadHandler(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("Non-xlsx rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/notes.txt", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("filename")
		c.SetParamValues("notes.txt")

		if assert.NoError(t, dlHandler.DownloadHandler(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})
}
