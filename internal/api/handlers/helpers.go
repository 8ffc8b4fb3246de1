package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/services"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.FromContext(r.Context()).Error("encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain and graph errors to HTTP statuses.
// Unexpected errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownLocation),
		errors.Is(err, services.ErrUnknownVehicle),
		errors.Is(err, services.ErrUnknownCargo),
		errors.Is(err, services.ErrUnknownMission),
		errors.Is(err, graph.ErrNoPath),
		errors.Is(err, graph.ErrNoEdge):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateLocation),
		errors.Is(err, services.ErrDuplicateVehicle),
		errors.Is(err, services.ErrVehicleUnavailable),
		errors.Is(err, services.ErrNoQueuedVehicle),
		errors.Is(err, services.ErrNoPendingCargo),
		errors.Is(err, domain.ErrMissionClosed):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, graph.ErrInvalidWeight),
		errors.Is(err, graph.ErrInvalidID),
		errors.Is(err, services.ErrInvalidTraversal),
		errors.Is(err, services.ErrNotSortingCenter),
		errors.Is(err, domain.ErrOverCapacity),
		errors.Is(err, errInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		obs.FromContext(r.Context()).Error(op+" failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

var errInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

// decodeJSON reads exactly one JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return invalidInput("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return invalidInput("body must contain only one JSON object")
	}
	return nil
}

// queryPair reads the required from and to query parameters.
func queryPair(r *http.Request) (string, string, error) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		return "", "", invalidInput("from and to query parameters are required")
	}
	return from, to, nil
}
