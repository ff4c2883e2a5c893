package server

import (
	"fmt"
	"net/http"
	"net/netip"
	"strconv"

	"github.com/qdm12/ipappend/internal/gateway"
	"github.com/qdm12/ipappend/internal/models"
)

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	flags := h.gateway.ConfigFlags()
	flags.GatewayAPIKey = h.gatewayAPIKey != ""

	writeJSON(w, http.StatusOK, models.HealthStatus{
		Status:      "ok",
		Timestamp:   h.timeNow().UTC(),
		Version:     h.buildInfo.VersionString(),
		Provider:    h.providerName,
		ConfigFlags: flags,
	})
}

func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) {
	var request models.LookupRequest
	err := decodeBody(w, r, &request, false)
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	ipAddresses := request.Addresses()
	if ignored := len(ipAddresses) - 1; ignored > 0 {
		w.Header().Set(ignoredIPCountHeader, strconv.Itoa(ignored))
	}

	record, err := h.gateway.Lookup(r.Context(), ipAddresses)
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *handlers) lookupBatch(w http.ResponseWriter, r *http.Request) {
	var request models.LookupRequest
	err := decodeBody(w, r, &request, false)
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	results, err := h.gateway.LookupBatch(r.Context(), request.Addresses())
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BatchResponse{Results: results})
}

// test always answers with a success flag, and with a 500 status
// code on any failure, including provider failures.
func (h *handlers) test(w http.ResponseWriter, r *http.Request) {
	var request models.TestRequest
	err := decodeBody(w, r, &request, true)
	if err == nil {
		var data any
		data, err = h.gateway.Test(r.Context(), request.IPAddress)
		if err == nil {
			writeJSON(w, http.StatusOK, models.TestResponse{Success: true, Data: data})
			return
		}
	}

	h.logger.Warn("provider test failed: " + err.Error())
	errResponse := gateway.NewErrorResponse(err)
	writeJSON(w, http.StatusInternalServerError, models.TestResponse{
		Error:   errResponse.Error,
		Details: errResponse.Details,
	})
}

func (h *handlers) proxy(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	err := decodeBody(w, r, &payload, false)
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	statusCode, body, err := h.gateway.Forward(r.Context(), payload)
	if err != nil {
		h.httpError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// visitor enriches the IP address of the caller, as found from
// the X-Forwarded-For or X-Real-IP headers or the remote address.
func (h *handlers) visitor(w http.ResponseWriter, r *http.Request) {
	ipAddress := r.RemoteAddr
	addrPort, err := netip.ParseAddrPort(ipAddress)
	if err == nil {
		ipAddress = addrPort.Addr().String()
	}

	record, err := h.gateway.Lookup(r.Context(), []string{ipAddress})
	if err != nil {
		h.httpError(w, r, fmt.Errorf("looking up %s: %w", ipAddress, err))
		return
	}

	writeJSON(w, http.StatusOK, record)
}
