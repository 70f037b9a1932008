package serviceutils

import (
	"github.com/labstack/echo/v4"
)

// ExportResponse is the success payload returned by the export tools.
// Sheets and SheetNames are populated only for multi-sheet exports.
type ExportResponse struct {
	Path       string   `json:"path"`
	Filetype   string   `json:"filetype"`
	Filename   string   `json:"filename"`
	Filesize   string   `json:"filesize"`
	Sheets     int      `json:"sheets,omitempty"`
	SheetNames []string `json:"sheet_names,omitempty"`
}

// FailureResponse is the uniform failure payload returned when an export
// cannot be completed. Success is always false; the field exists so it
// serializes explicitly.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Failure(err error) FailureResponse {
	return FailureResponse{Success: false, Error: err.Error()}
}

type GenericResponse struct {
	Success bool
	Message string
	Data    interface{}
	Error   string
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}
