package handler

import (
	"net/http"

	"github.com/yndnr/deskshare-go/internal/core/service"
)

// commandFailure writes {success:false,error} with the status for err.
func (h *Handler) commandFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log(r).Warn("command failed", "command", op, "error", err)
	h.writeJSON(w, errorCodeToHTTPStatus(codeOf(err)), CommandResponse{
		Success: false,
		Error:   publicMessage(err),
	})
}

// handleClick handles POST /click.
func (h *Handler) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		h.commandFailure(w, r, "click", err)
		return
	}

	err := h.commands.Click(r.Context(), service.ClickRequest{
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Button: req.Button,
	})
	if err != nil {
		h.commandFailure(w, r, "click", err)
		return
	}
	h.writeJSON(w, http.StatusOK, CommandResponse{Success: true})
}

// handleSetMonitor handles POST /set_monitor. Rejection carries no message.
func (h *Handler) handleSetMonitor(w http.ResponseWriter, r *http.Request) {
	var req SetMonitorRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, CommandResponse{Success: false})
		return
	}

	index := 1
	if req.Monitor != nil {
		index = *req.Monitor
	}
	if err := h.commands.SelectMonitor(index); err != nil {
		h.log(r).Debug("monitor selection rejected", "monitor", index, "error", err)
		h.writeJSON(w, http.StatusBadRequest, CommandResponse{Success: false})
		return
	}
	h.writeJSON(w, http.StatusOK, CommandResponse{Success: true})
}

// handleTypeText handles POST /type_text. Empty text is rejected with no
// message.
func (h *Handler) handleTypeText(w http.ResponseWriter, r *http.Request) {
	var req TypeTextRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, CommandResponse{Success: false})
		return
	}

	enter := true
	if req.Enter != nil {
		enter = *req.Enter
	}
	err := h.commands.TypeText(req.Text, enter)
	if err != nil {
		if status := errorCodeToHTTPStatus(codeOf(err)); status == http.StatusBadRequest {
			h.writeJSON(w, status, CommandResponse{Success: false})
			return
		}
		h.commandFailure(w, r, "type_text", err)
		return
	}
	h.writeJSON(w, http.StatusOK, CommandResponse{Success: true})
}

// handleShell handles POST /cmd. Every outcome is a 200; failures put the
// message in output.
func (h *Handler) handleShell(w http.ResponseWriter, r *http.Request) {
	var req ShellRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeJSON(w, http.StatusOK, ShellResponse{Success: false, Output: publicMessage(err)})
		return
	}

	output, err := h.commands.RunShell(r.Context(), req.Command)
	if err != nil {
		h.log(r).Warn("shell command failed", "error", err)
		h.writeJSON(w, http.StatusOK, ShellResponse{Success: false, Output: publicMessage(err)})
		return
	}

	h.log(r).Info("shell command executed", "output_bytes", len(output))
	h.writeJSON(w, http.StatusOK, ShellResponse{Success: true, Output: output})
}

// handleTypeKey handles POST /type_key. Every outcome is a 200.
func (h *Handler) handleTypeKey(w http.ResponseWriter, r *http.Request) {
	var req TypeKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeJSON(w, http.StatusOK, CommandResponse{Success: false, Error: publicMessage(err)})
		return
	}

	if err := h.commands.PressKeys(req.Keys); err != nil {
		h.log(r).Warn("command failed", "command", "type_key", "error", err)
		h.writeJSON(w, http.StatusOK, CommandResponse{Success: false, Error: publicMessage(err)})
		return
	}
	h.writeJSON(w, http.StatusOK, CommandResponse{Success: true})
}
