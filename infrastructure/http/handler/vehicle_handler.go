package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
)

type VehicleHandler struct {
	vehicleUseCase inbound.VehicleUseCase
}

func NewVehicleHandler(vehicleUseCase inbound.VehicleUseCase) *VehicleHandler {
	return &VehicleHandler{vehicleUseCase: vehicleUseCase}
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	vehicle, err := h.vehicleUseCase.CreateVehicle(r.Context(), req)
	if err != nil {
		writeError(w, err, vehicleErrors)
		return
	}

	response.Success(w, http.StatusCreated, "Vehicle created successfully", vehicle)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	vehicle, err := h.vehicleUseCase.UpdateVehicle(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, vehicleErrors)
		return
	}

	response.Success(w, http.StatusOK, "Vehicle updated successfully", vehicle)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicleUseCase.DeleteVehicle(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err, vehicleErrors)
		return
	}

	response.Success(w, http.StatusOK, "Vehicle deleted successfully", nil)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicleUseCase.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, vehicleErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", vehicle)
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, inbound.ListVehiclesRequest{
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 10),
		Status:  q.Get("status"),
		OwnerID: q.Get("owner_id"),
		Search:  q.Get("search"),
	})
}

// ListOwnerVehicles lists only the caller's own vehicles
func (h *VehicleHandler) ListOwnerVehicles(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	h.list(w, r, inbound.ListVehiclesRequest{
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 10),
		Status:  r.URL.Query().Get("status"),
		OwnerID: claims.UserID,
	})
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request, req inbound.ListVehiclesRequest) {
	vehicles, err := h.vehicleUseCase.ListVehicles(r.Context(), req)
	if err != nil {
		writeError(w, err, vehicleErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", vehicles)
}
