package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/logger"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service/serviceutils"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/storage"
	"github.com/protex-intelligence/xlsx-export-mcp/pkg/xlsxbuild"
)

// XLSXContentType is the MIME type reported for every generated file.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// filenameSanitizer matches every character that may not appear in a stored
// filename; matches are replaced with underscores.
var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SheetRequest is one sheet of a multi-sheet export request.
type SheetRequest struct {
	SheetName string
	Data      []map[string]interface{}
	Headers   []string
}

// ExportService coordinates an export: validate input, build the workbook,
// derive a unique stored name, persist, and assemble the response payload.
// Errors are returned to the handler, which converts them into the uniform
// failure payload — nothing here reaches the transport as an exception.
type ExportService interface {
	ExportTable(ctx context.Context, data []map[string]interface{}, filename, sheetName string, headers []string) (*serviceutils.ExportResponse, error)
	ExportMultiSheet(ctx context.Context, sheets []SheetRequest, filename string) (*serviceutils.ExportResponse, error)
}

type exportService struct {
	store *storage.FileStore
}

func NewExportService(store *storage.FileStore) ExportService {
	return &exportService{store: store}
}

func (s *exportService) ExportTable(ctx context.Context, data []map[string]interface{}, filename, sheetName string, headers []string) (*serviceutils.ExportResponse, error) {
	if len(data) == 0 {
		return nil, errors.New("Data array cannot be empty")
	}
	if sheetName == "" {
		sheetName = xlsxbuild.DefaultSheetName
	}

	content, err := xlsxbuild.BuildSingle(data, sheetName, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %w", err)
	}

	fullFilename := storedFilename(filename)
	fileSize := xlsxbuild.FormatFileSize(len(content))

	path, err := s.store.WriteFile(ctx, fullFilename, content)
	if err != nil {
		return nil, err
	}

	columnCount := len(headers)
	if columnCount == 0 {
		columnCount = len(data[0])
	}
	logger.InfoLog(ctx, "XLSX generated: %s (%s)", fullFilename, fileSize)
	logger.InfoLog(ctx, "Rows: %d, Columns: %d, Sheet: %s", len(data), columnCount, sheetName)
	logger.InfoLog(ctx, "Saved to: %s", path)

	return &serviceutils.ExportResponse{
		Path:     fullFilename,
		Filetype: XLSXContentType,
		Filename: fullFilename,
		Filesize: fileSize,
	}, nil
}

func (s *exportService) ExportMultiSheet(ctx context.Context, sheets []SheetRequest, filename string) (*serviceutils.ExportResponse, error) {
	if len(sheets) == 0 {
		return nil, errors.New("At least one sheet must be provided")
	}

	totalRows := 0
	sheetNames := make([]string, 0, len(sheets))
	buildSheets := make([]xlsxbuild.SheetData, 0, len(sheets))
	for _, sh := range sheets {
		if len(sh.Data) == 0 {
			return nil, errors.New("Each sheet's data array cannot be empty")
		}
		name := sh.SheetName
		if name == "" {
			name = xlsxbuild.DefaultSheetName
		}
		sheetNames = append(sheetNames, name)
		totalRows += len(sh.Data)
		buildSheets = append(buildSheets, xlsxbuild.SheetData{
			Name:    name,
			Records: sh.Data,
			Headers: sh.Headers,
		})
	}

	logger.InfoLog(ctx, "Generating multi-sheet Excel with %d sheets...", len(sheets))
	content, err := xlsxbuild.BuildMulti(buildSheets)
	if err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %w", err)
	}

	fullFilename := storedFilename(filename)
	fileSize := xlsxbuild.FormatFileSize(len(content))

	path, err := s.store.WriteFile(ctx, fullFilename, content)
	if err != nil {
		return nil, err
	}

	logger.InfoLog(ctx, "Multi-sheet XLSX generated: %s (%s)", fullFilename, fileSize)
	logger.InfoLog(ctx, "Sheets: %d, Total rows: %d", len(sheets), totalRows)
	logger.InfoLog(ctx, "Saved to: %s", path)

	return &serviceutils.ExportResponse{
		Path:       fullFilename,
		Filetype:   XLSXContentType,
		Filename:   fullFilename,
		Filesize:   fileSize,
		Sheets:     len(sheets),
		SheetNames: sheetNames,
	}, nil
}

// storedFilename sanitizes the caller-supplied name and appends a random
// UUID so concurrent exports never collide.
func storedFilename(filename string) string {
	sanitized := filenameSanitizer.ReplaceAllString(filename, "_")
	return fmt.Sprintf("%s_%s.xlsx", sanitized, uuid.NewString())
}
