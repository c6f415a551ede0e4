package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

const maxRequestBytes = 64 << 10

// Health reports liveness
func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// GetValuation defines a GET handler that values a vehicle described by query parameters
func (h *httpServer) GetValuation(w http.ResponseWriter, r *http.Request) {
	vars := r.URL.Query()

	year, err := validateInt(w, vars, "year", true)
	if err != nil {
		h.log.Debug("year validation failed", zap.Error(err))
		return
	}

	mileage, err := validateInt(w, vars, "mileage", false)
	if err != nil {
		h.log.Debug("mileage validation failed", zap.Error(err))
		return
	}

	condition, err := validateInt(w, vars, "condition", true)
	if err != nil {
		h.log.Debug("condition validation failed", zap.Error(err))
		return
	}

	vehicle := dal.VehicleDescription{
		Year:      year,
		Mileage:   mileage,
		Condition: condition,
		Options:   parseOptions(vars),
		VIN:       strings.TrimSpace(vars.Get("vin")),
	}

	h.value(w, r, vehicle)
}

// PostValuation defines a POST handler that values a vehicle described by a JSON body
func (h *httpServer) PostValuation(w http.ResponseWriter, r *http.Request) {
	var vehicle dal.VehicleDescription
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&vehicle); err != nil {
		h.log.Debug("valuation body rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	h.value(w, r, vehicle)
}

func (h *httpServer) value(w http.ResponseWriter, r *http.Request, vehicle dal.VehicleDescription) {
	if err := h.validate.Struct(vehicle); err != nil {
		h.log.Debug("vehicle validation failed", zap.Error(err))
		writeValidationError(w, err)
		return
	}

	requestID := uuid.NewString()
	quotes, failures := h.quoter.QuoteAll(r.Context(), vehicle)
	summary := valuation.Aggregate(quotes)

	h.log.Info("valuation",
		zap.String("request_id", requestID),
		zap.Int("year", vehicle.Year),
		zap.Int("quotes", len(quotes)),
		zap.Int("failures", len(failures)),
		zap.Bool("has_summary", summary != nil))

	resp := dal.ValuationResponse{
		RequestID: requestID,
		Vehicle:   vehicle,
		Quotes:    quotes,
		Failures:  failures,
		Summary:   summary,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("encode valuation response", zap.String("request_id", requestID), zap.Error(err))
	}
}

// GetVIN defines a GET handler that decodes a VIN. It always answers 200 with
// a VinDecodeResult; decode problems are reported in its errors field.
func (h *httpServer) GetVIN(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["vin"]
	result := h.decoder.Decode(r.Context(), raw)

	h.log.Info("vin decode",
		zap.String("vin", result.VIN),
		zap.Bool("usable", result.Usable()),
		zap.Strings("errors", result.Errors))

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("encode vin response", zap.Error(err))
	}
}

func validateInt(w http.ResponseWriter, vars url.Values, name string, required bool) (int, error) {
	value := strings.TrimSpace(vars.Get(name))
	if value == "" {
		if required {
			writeError(w, http.StatusBadRequest, "validation failed", ErrorDetail{Path: name, Info: name + " is required"})
			return 0, fmt.Errorf("%s is required", name)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", ErrorDetail{Path: name, Info: name + " must be an integer"})
		return 0, err
	}
	if n < 0 {
		writeError(w, http.StatusBadRequest, "validation failed", ErrorDetail{Path: name, Info: name + " must be at least 0"})
		return 0, errors.New(name + " must be a positive number")
	}
	return n, nil
}

func parseOptions(vars url.Values) []string {
	var options []string
	for _, raw := range vars["options"] {
		for _, opt := range strings.Split(raw, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
	}
	return options
}
