package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service/serviceutils"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/storage"
)

// DownloadHandler serves generated export files over HTTP so callers can
// fetch a file by the name returned from the export tools.
type DownloadHandler struct {
	store *storage.FileStore
}

func NewDownloadHandler(store *storage.FileStore) *DownloadHandler {
	return &DownloadHandler{store: store}
}

func (h *DownloadHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}

func (h *DownloadHandler) DownloadHandler(c echo.Context) error {
	name := c.Param("filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid filename", nil)
	}
	if !strings.HasSuffix(name, ".xlsx") {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Only .xlsx files are served", nil)
	}

	data, err := os.ReadFile(filepath.Join(h.store.Root(), name))
	if err != nil {
		if os.IsNotExist(err) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "File not found", nil)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to read file", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, service.XLSXContentType, data)
}
