package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/config"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/handler"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/logger"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/storage"
)

const (
	serverName    = "xlsx-export-mcp"
	serverVersion = "1.0.0"
)

type App struct {
	Echo  *echo.Echo
	MCP   *server.MCPServer
	Store *storage.FileStore
}

func NewApp() *App {
	e := echo.New()
	// stdout carries the MCP wire protocol; keep echo quiet on it.
	e.HideBanner = true
	e.HidePort = true
	return &App{Echo: e}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Prepare the export directory up front so a broken path fails startup,
	// not the first export.
	a.Store = storage.NewFileStore(config.DefaultEnvConfig.EXPORT_DIR)
	if err := a.Store.EnsureDirectory(ctx); err != nil {
		return fmt.Errorf("failed to prepare export directory: %w", err)
	}

	// Initialize dependencies
	exportSvc := service.NewExportService(a.Store)

	// MCP server and tools
	a.MCP = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	exportTool := handler.NewExportTableTool(exportSvc)
	a.MCP.AddTool(exportTool.Definition(), exportTool.Handle)

	multiSheetTool := handler.NewExportMultiSheetTool(exportSvc)
	a.MCP.AddTool(multiSheetTool.Definition(), multiSheetTool.Handle)

	// HTTP surface for downloading generated files
	downloadHandler := handler.NewDownloadHandler(a.Store)
	a.RegisterMiddlewares()
	a.RegisterRoutes(downloadHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: os.Stderr}))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(downloadHandler *handler.DownloadHandler) {
	a.Echo.GET("/healthz", downloadHandler.HealthHandler)

	exportGroup := a.Echo.Group("/exports")
	exportGroup.GET("/:filename", downloadHandler.DownloadHandler)
}

// Run serves MCP requests on stdio until the client disconnects. When
// HTTP_ADDR is set the download server runs alongside it.
func (a *App) Run() error {
	if addr := config.DefaultEnvConfig.HTTP_ADDR; addr != "" {
		go func() {
			logger.InfoLog(context.Background(), "HTTP file server listening on %s", addr)
			if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorLog(context.Background(), "HTTP server stopped: %v", err)
			}
		}()
	}

	return server.ServeStdio(a.MCP)
}
