package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/logger"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service"
	"github.com/protex-intelligence/xlsx-export-mcp/internal/service/serviceutils"
	"github.com/protex-intelligence/xlsx-export-mcp/pkg/xlsxbuild"
)

const defaultFilename = "output"

// ExportTableTool exposes single-sheet XLSX export as an MCP tool.
type ExportTableTool struct {
	svc service.ExportService
}

func NewExportTableTool(svc service.ExportService) *ExportTableTool {
	return &ExportTableTool{svc: svc}
}

func (t *ExportTableTool) Definition() mcp.Tool {
	return mcp.NewTool("export_table",
		mcp.WithDescription("Export data to Excel (XLSX) format and save to the export directory. Returns the stored filename, MIME type, and file size."),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description("Array of objects representing spreadsheet rows"),
			mcp.Items(map[string]interface{}{"type": "object"}),
		),
		mcp.WithString("filename",
			mcp.Description("Filename for the exported file (without extension)"),
			mcp.DefaultString(defaultFilename),
		),
		mcp.WithString("sheet_name",
			mcp.Description("Name of the worksheet within the Excel file"),
			mcp.DefaultString(xlsxbuild.DefaultSheetName),
		),
		mcp.WithString("description",
			mcp.Description("Optional description of the file contents"),
		),
		mcp.WithArray("headers",
			mcp.Description("Optional custom column headers"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	)
}

func (t *ExportTableTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	data, err := decodeRecords(args["data"])
	if err != nil {
		return failureResult(ctx, err), nil
	}
	headers, err := decodeHeaders(args["headers"])
	if err != nil {
		return failureResult(ctx, err), nil
	}

	filename := req.GetString("filename", defaultFilename)
	sheetName := req.GetString("sheet_name", xlsxbuild.DefaultSheetName)

	resp, err := t.svc.ExportTable(ctx, data, filename, sheetName, headers)
	if err != nil {
		return failureResult(ctx, err), nil
	}
	return jsonResult(ctx, resp), nil
}

// ExportMultiSheetTool exposes multi-sheet XLSX export as an MCP tool.
type ExportMultiSheetTool struct {
	svc service.ExportService
}

func NewExportMultiSheetTool(svc service.ExportService) *ExportMultiSheetTool {
	return &ExportMultiSheetTool{svc: svc}
}

func (t *ExportMultiSheetTool) Definition() mcp.Tool {
	return mcp.NewTool("export_table_multi_sheet",
		mcp.WithDescription("Export data to multi-sheet Excel (XLSX) format and save to the export directory. Each sheet object contains sheet_name, data, and optional headers."),
		mcp.WithArray("sheets",
			mcp.Required(),
			mcp.Description("Array of sheet objects, each containing sheet_name, data, and optional headers"),
			mcp.Items(map[string]interface{}{"type": "object"}),
		),
		mcp.WithString("filename",
			mcp.Description("Filename for the exported file (without extension)"),
			mcp.DefaultString(defaultFilename),
		),
		mcp.WithString("description",
			mcp.Description("Optional description of the file contents"),
		),
	)
}

func (t *ExportMultiSheetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sheets, err := decodeSheets(req.GetArguments()["sheets"])
	if err != nil {
		return failureResult(ctx, err), nil
	}

	filename := req.GetString("filename", defaultFilename)

	resp, err := t.svc.ExportMultiSheet(ctx, sheets, filename)
	if err != nil {
		return failureResult(ctx, err), nil
	}
	return jsonResult(ctx, resp), nil
}

// --- Argument decoding ---

func decodeRecords(raw interface{}) ([]map[string]interface{}, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("Data must be provided as an array of objects")
	}

	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.New("Data must be provided as an array of objects")
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeHeaders(raw interface{}) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("Headers must be provided as an array of strings")
	}

	headers := make([]string, 0, len(items))
	for _, item := range items {
		h, ok := item.(string)
		if !ok {
			return nil, errors.New("Headers must be provided as an array of strings")
		}
		headers = append(headers, h)
	}
	return headers, nil
}

func decodeSheets(raw interface{}) ([]service.SheetRequest, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("Sheets must be provided as an array of sheet objects")
	}

	sheets := make([]service.SheetRequest, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.New("Each sheet must be an object with sheet_name and data")
		}

		rawData, ok := obj["data"].([]interface{})
		if !ok {
			return nil, errors.New("Each sheet must have a 'data' array")
		}
		data := make([]map[string]interface{}, 0, len(rawData))
		for _, row := range rawData {
			rec, ok := row.(map[string]interface{})
			if !ok {
				return nil, errors.New("Each sheet's data must be an array of objects")
			}
			data = append(data, rec)
		}

		sheet := service.SheetRequest{Data: data}
		if name, ok := obj["sheet_name"].(string); ok {
			sheet.SheetName = name
		}
		if headers, err := decodeHeaders(obj["headers"]); err != nil {
			return nil, err
		} else {
			sheet.Headers = headers
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// --- Result shaping ---

// failureResult converts any export error into the uniform failure payload.
// The error is reported inside the tool result, never as a protocol error.
func failureResult(ctx context.Context, err error) *mcp.CallToolResult {
	logger.ErrorLog(ctx, "Error processing XLSX export: %v", err)

	body, mErr := json.Marshal(serviceutils.Failure(err))
	if mErr != nil {
		return mcp.NewToolResultText(`{"success":false,"error":"internal error"}`)
	}
	return mcp.NewToolResultText(string(body))
}

func jsonResult(ctx context.Context, resp *serviceutils.ExportResponse) *mcp.CallToolResult {
	body, err := json.Marshal(resp)
	if err != nil {
		return failureResult(ctx, err)
	}
	return mcp.NewToolResultText(string(body))
}
