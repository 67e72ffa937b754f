package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/validator"
)

type RentalHandler struct {
	rentalUseCase inbound.RentalUseCase
}

func NewRentalHandler(rentalUseCase inbound.RentalUseCase) *RentalHandler {
	return &RentalHandler{rentalUseCase: rentalUseCase}
}

// Dates arrive as YYYY-MM-DD or RFC3339 strings
type createRentalRequest struct {
	CustomerID string  `json:"customer_id"`
	VehicleID  string  `json:"vehicle_id"`
	DriverID   *string `json:"driver_id,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Notes      string  `json:"notes,omitempty"`
}

type updateRentalRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type bookingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	IDNumber      string `json:"id_number"`
	LicenseNumber string `json:"license_number"`
	VehicleID     string `json:"vehicle_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Notes         string `json:"notes,omitempty"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	if !validator.ValidateRequired(req.CustomerID) || !validator.ValidateRequired(req.VehicleID) {
		response.UnprocessableEntity(w, "customer_id and vehicle_id are required")
		return
	}

	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	createdBy := ""
	if claims := middleware.GetUserClaims(r.Context()); claims != nil {
		createdBy = claims.UserID
	}

	rental, err := h.rentalUseCase.CreateRental(r.Context(), inbound.CreateRentalRequest{
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		DriverID:   req.DriverID,
		StartDate:  start,
		EndDate:    end,
		Notes:      req.Notes,
		CreatedBy:  createdBy,
	})
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusCreated, "Rental created successfully", rental)
}

func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	var req updateRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	update := inbound.UpdateRentalRequest{Notes: req.Notes}
	if req.StartDate != nil {
		t, err := parseDateField("start_date", *req.StartDate)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		update.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDateField("end_date", *req.EndDate)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		update.EndDate = &t
	}

	rental, err := h.rentalUseCase.UpdateRental(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Rental updated successfully", rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalUseCase.GetRental(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", rental)
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, inbound.ListRentalsRequest{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 10),
		Status:     q.Get("status"),
		CustomerID: q.Get("customer_id"),
		VehicleID:  q.Get("vehicle_id"),
		DriverID:   q.Get("driver_id"),
	})
}

// ListDriverRentals lists the rentals assigned to the calling driver
func (h *RentalHandler) ListDriverRentals(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	h.list(w, r, inbound.ListRentalsRequest{
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 10),
		Status:   r.URL.Query().Get("status"),
		DriverID: claims.UserID,
	})
}

func (h *RentalHandler) list(w http.ResponseWriter, r *http.Request, req inbound.ListRentalsRequest) {
	rentals, err := h.rentalUseCase.ListRentals(r.Context(), req)
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", rentals)
}

func (h *RentalHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	var req inbound.AssignDriverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	if !validator.ValidateRequired(req.DriverID) {
		response.UnprocessableEntity(w, "driver_id is required")
		return
	}

	rental, err := h.rentalUseCase.AssignDriver(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Driver assigned successfully", rental)
}

func (h *RentalHandler) StartRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalUseCase.StartRental(r.Context(), mux.Vars(r)["id"], actingUser(r))
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Rental started", rental)
}

func (h *RentalHandler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalUseCase.CompleteRental(r.Context(), mux.Vars(r)["id"], actingUser(r))
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Rental completed", rental)
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalUseCase.CancelRental(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Rental cancelled", rental)
}

func (h *RentalHandler) SendContract(w http.ResponseWriter, r *http.Request) {
	result, err := h.rentalUseCase.SendContract(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Contract sent for signature", result)
}

func (h *RentalHandler) NotifyCustomer(w http.ResponseWriter, r *http.Request) {
	var req inbound.NotifyCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	result, err := h.rentalUseCase.NotifyCustomer(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusOK, "Customer notified", result)
}

// RequestBooking accepts the public booking form
func (h *RentalHandler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	if !validator.ValidateRequired(req.VehicleID) {
		response.UnprocessableEntity(w, "vehicle_id is required")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}

	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	rental, err := h.rentalUseCase.RequestBooking(r.Context(), inbound.BookingRequest{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		IDNumber:      req.IDNumber,
		LicenseNumber: req.LicenseNumber,
		VehicleID:     req.VehicleID,
		StartDate:     start,
		EndDate:       end,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err, rentalErrors)
		return
	}

	response.Success(w, http.StatusCreated, "Booking request received", rental)
}

func parsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := parseDateField("start_date", startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateField("end_date", endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func actingUser(r *http.Request) inbound.ActingUser {
	var actor inbound.ActingUser
	if claims := middleware.GetUserClaims(r.Context()); claims != nil {
		actor.ID = claims.UserID
		actor.Role = claims.Role
	}
	return actor
}
