package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/motorbridge/internal/bridge"
	"github.com/nerrad567/motorbridge/internal/telemetry"
)

// Dispatch actions accepted by the motor endpoint.
const (
	actionSendCommand = "send_motor_command"
	actionGetStatus   = "get_device_status"
)

// actionInvalid tags requests that never reached a dispatch branch
// (missing credentials, unparseable body, unknown action). Kept distinct
// from the real action names so counter and telemetry cardinality stays
// fixed no matter what clients send.
const actionInvalid = "invalid"

// CommandRequest is the body of a motor dispatch request. Payload is kept
// raw: the bridge forwards it to the device untouched, so the API layer
// has no opinion about its shape.
type CommandRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// handleMotor serves the dispatch endpoint. The response is written by
// dispatchMotor; this wrapper observes the outcome for the metrics
// counters and the telemetry sink.
func (s *Server) handleMotor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	action, status := s.dispatchMotor(w, r)
	s.counters.record(action, status)
	s.telemetry.RecordRequest(action, outcomeFor(status), status, time.Since(start))
}

// dispatchMotor validates the request, branches on the action field, and
// writes the response envelope. It returns the action label and HTTP
// status for observability.
//
// Statuses are confined to 200, 400, 404 and 500 here; 405 is produced
// by the router before this handler runs.
func (s *Server) dispatchMotor(w http.ResponseWriter, r *http.Request) (string, int) {
	// Credentials are checked before the body is even read: without them
	// neither branch can do anything useful.
	if s.bridge == nil {
		s.logger.Error("motor request rejected", "error", "adafruit credentials not configured")
		writeError(w, http.StatusInternalServerError, "adafruit credentials not configured")
		return actionInvalid, http.StatusInternalServerError
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("motor request rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return actionInvalid, http.StatusBadRequest
	}

	switch req.Action {
	case actionSendCommand:
		return actionSendCommand, s.sendCommand(w, r, req.Payload)
	case actionGetStatus:
		return actionGetStatus, s.getStatus(w, r)
	default:
		s.logger.Warn("motor request rejected", "error", "unrecognised action", "action", req.Action)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid action %q", req.Action))
		return actionInvalid, http.StatusBadRequest
	}
}

// sendCommand publishes the payload to the control feed.
func (s *Server) sendCommand(w http.ResponseWriter, r *http.Request, payload json.RawMessage) int {
	err := s.bridge.SendCommand(r.Context(), payload)
	if err == nil {
		writeSuccess(w, http.StatusOK, nil)
		return http.StatusOK
	}

	if errors.Is(err, bridge.ErrEmptyCommand) {
		s.logger.Warn("command rejected", "error", err)
		writeError(w, http.StatusBadRequest, "payload is required for send_motor_command")
		return http.StatusBadRequest
	}

	// Connection and publish failures carry the underlying broker error;
	// the dashboard surfaces it for debugging.
	s.logger.Error("command publish failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
	return http.StatusInternalServerError
}

// getStatus fetches and returns the device's last reported status.
func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) int {
	data, err := s.bridge.DeviceStatus(r.Context())
	if err == nil {
		writeSuccess(w, http.StatusOK, data)
		return http.StatusOK
	}

	switch {
	case errors.Is(err, bridge.ErrNoStatus):
		// Not an error condition: the device simply has not reported yet.
		s.logger.Info("no device status recorded", "error", err)
		writeError(w, http.StatusNotFound, "no status has been recorded for this device yet")
		return http.StatusNotFound

	case errors.Is(err, bridge.ErrMalformedStatus):
		// The raw value was already logged by the bridge. The fixed
		// message keeps unparseable device bytes out of responses.
		s.logger.Error("device status unreadable", "error", err)
		writeError(w, http.StatusInternalServerError, "malformed status data")
		return http.StatusInternalServerError

	default:
		s.logger.Error("status fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return http.StatusInternalServerError
	}
}

// outcomeFor maps an HTTP status to the telemetry outcome tag.
func outcomeFor(status int) string {
	switch {
	case status == http.StatusNotFound:
		return telemetry.OutcomeNoData
	case status >= http.StatusBadRequest:
		return telemetry.OutcomeError
	default:
		return telemetry.OutcomeSuccess
	}
}
