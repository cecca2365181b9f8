package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// POST /chat
func (app *Application) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	if app.Assistant == nil {
		app.serviceUnavailable(w, r, ErrChatUnavailable)
		return
	}
	start := time.Now()

	req := &ChatRequest{}
	if err := decodeJSON(w, r, app.extractionBodyLimit(), req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	reply, err := app.Assistant.Reply(r.Context(), req.Message)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, ChatResponse{
		Success:          true,
		Content:          reply.Content,
		Analysis:         reply.Analysis,
		ProcessingTimeMS: elapsedMS(start),
	})
}

type streamChunk struct {
	Content string `json:"content"`
}

type streamError struct {
	Error string `json:"error"`
}

// writeEvent writes one server-sent event and flushes it.
func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}

// POST /chat/stream
func (app *Application) chatStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	if app.Assistant == nil {
		app.serviceUnavailable(w, r, ErrChatUnavailable)
		return
	}

	req := &ChatRequest{}
	if err := decodeJSON(w, r, app.extractionBodyLimit(), req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	analysis, chunks, err := app.Assistant.Stream(r.Context(), req.Message)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, "analysis", analysis); err != nil {
		app.Logger.Warn("stream write failed", "error", err)
		return
	}

	for chunk, err := range chunks {
		if err != nil {
			app.Logger.Error("chat stream failed", "error", err, "request_id", RequestID(r.Context()))
			_ = writeEvent(w, rc, "error", streamError{Error: err.Error()})
			return
		}
		if err := writeEvent(w, rc, "", streamChunk{Content: chunk}); err != nil {
			app.Logger.Warn("stream write failed", "error", err)
			return
		}
	}

	_ = writeEvent(w, rc, "done", struct{}{})
}
