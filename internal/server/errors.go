package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/chat"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

// Helper function to get caller information
func getCallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "[unknown]"
	}
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

// HandlerError is the body of every error response.
type HandlerError struct {
	Success          bool   `json:"success"`
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	StatusCode       int    `json:"status_code"`
	CallerInfo       string `json:"callerInfo"`
}

var ErrGET = fmt.Errorf("GET method required for this endpoint")
var ErrPOST = fmt.Errorf("POST method required for this endpoint")
var ErrChatUnavailable = errors.New("chat is not configured on this server")

func (app *Application) writeError(w http.ResponseWriter, status int, body HandlerError) {
	body.StatusCode = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		app.Logger.Error("failed to write error response", "error", err)
	}
}

func (app *Application) requireGetMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodGet)
	app.writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "GET Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use GET method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) requirePostMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodPost)
	app.writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "Post Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use POST method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badJSONRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Error Parsing JSON",
		Description:      err.Error(),
		PossibleSolution: "Double check your JSON formatting",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Bad Request",
		Description:      err.Error(),
		PossibleSolution: "Check your request parameters",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) imageLoadError(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Failed To Load Image",
		Description:      err.Error(),
		PossibleSolution: "Check that the image URL is public and reachable, or send the image as image_data",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) serviceUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, http.StatusServiceUnavailable, HandlerError{
		ErrorName:        "Service Unavailable",
		Description:      err.Error(),
		PossibleSolution: "Set GOOGLE_API_KEY (or configure Vertex AI) and restart the server",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.Logger.Error("internal server error", "path", r.URL.Path, "error", err)
	app.writeError(w, http.StatusInternalServerError, HandlerError{
		ErrorName:        "Internal Server Error",
		Description:      err.Error(),
		PossibleSolution: "Internal Server Error requiring support",
		CallerInfo:       getCallerInfo(),
	})
}

// validationError answers with 400 for errors from the colour validation
// taxonomy and 500 for anything else.
func (app *Application) validationError(w http.ResponseWriter, r *http.Request, err error) {
	name, solution, ok := classify(err)
	if !ok {
		app.Logger.Error("internal server error", "path", r.URL.Path, "error", err)
		app.writeError(w, http.StatusInternalServerError, HandlerError{
			ErrorName:        "Internal Server Error",
			Description:      err.Error(),
			PossibleSolution: "Internal Server Error requiring support",
			CallerInfo:       getCallerInfo(),
		})
		return
	}
	app.writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        name,
		Description:      err.Error(),
		PossibleSolution: solution,
		CallerInfo:       getCallerInfo(),
	})
}

func classify(err error) (name, solution string, ok bool) {
	switch {
	case errors.Is(err, colour.ErrInvalidColorFormat):
		return "Invalid Color Format", "Use a 7 character hex color such as #FF5733", true
	case errors.Is(err, colour.ErrInvalidPaletteType):
		return "Invalid Palette Type", "Use one of the types listed by GET /palette-types", true
	case errors.Is(err, colour.ErrInvalidParameter):
		return "Invalid Parameter", "Check the allowed ranges of your request parameters", true
	case errors.Is(err, colour.ErrImageDecode):
		return "Image Decode Error", "Send a PNG, JPEG, GIF, WebP, BMP, TIFF or QOI image", true
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Invalid Parameter", "Send a non-empty message", true
	default:
		return "", "", false
	}
}
