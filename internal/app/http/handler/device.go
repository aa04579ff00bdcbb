package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/oxygenesis/signchain/internal/domain"
	"github.com/oxygenesis/signchain/internal/service"
)

type Device struct {
	svc *service.DeviceService
	log *logrus.Entry
}

func NewDevice(svc *service.DeviceService, log *logrus.Entry) *Device {
	return &Device{svc: svc, log: log.WithField("context", "http")}
}

func (h *Device) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pass", "version": "v1"})
}

type deviceResponse struct {
	ID               string  `json:"id"`
	Algorithm        string  `json:"algorithm"`
	Label            string  `json:"label,omitempty"`
	SignatureCounter uint64  `json:"signature_counter"`
	LastSignature    *string `json:"last_signature,omitempty"`
	PublicKey        string  `json:"public_key"`
}

func toResponse(d *domain.Device) deviceResponse {
	return deviceResponse{
		ID:               d.ID,
		Algorithm:        string(d.Algorithm),
		Label:            d.Label,
		SignatureCounter: d.SignatureCounter,
		LastSignature:    d.LastSignature,
		PublicKey:        d.PublicKey,
	}
}

func (h *Device) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		Algorithm string `json:"algorithm"`
		Label     string `json:"label"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyErr(w, err)
		return
	}

	dev, err := h.svc.CreateDevice(req.ID, req.Algorithm, req.Label)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(dev))
}

func (h *Device) Get(w http.ResponseWriter, r *http.Request) {
	dev, err := h.svc.GetDevice(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(dev))
}

func (h *Device) List(w http.ResponseWriter, r *http.Request) {
	devs, err := h.svc.ListDevices()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]deviceResponse, 0, len(devs))
	for _, d := range devs {
		out = append(out, toResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateLabel handles PATCH /v1/devices/{id}.
func (h *Device) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label *string `json:"label"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyErr(w, err)
		return
	}
	if req.Label == nil {
		writeErr(w, http.StatusBadRequest, domain.CodeInvalidInput, "label is required")
		return
	}

	dev, err := h.svc.UpdateLabel(mux.Vars(r)["id"], *req.Label)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(dev))
}

func (h *Device) Sign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data string `json:"data"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyErr(w, err)
		return
	}

	// empty data is rejected by the service with ErrInvalidInput
	res, err := h.svc.Sign(mux.Vars(r)["id"], req.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Device) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SignedData string `json:"signed_data"`
		Signature  string `json:"signature"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyErr(w, err)
		return
	}
	// empty or malformed input is a negative verification, not a request error
	ok, err := h.svc.Verify(mux.Vars(r)["id"], req.SignedData, req.Signature)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": ok})
}
