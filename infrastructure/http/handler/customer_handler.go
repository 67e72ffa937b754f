package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
)

type CustomerHandler struct {
	customerUseCase inbound.CustomerUseCase
}

func NewCustomerHandler(customerUseCase inbound.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{customerUseCase: customerUseCase}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	customer, err := h.customerUseCase.CreateCustomer(r.Context(), req)
	if err != nil {
		writeError(w, err, customerErrors)
		return
	}

	response.Success(w, http.StatusCreated, "Customer created successfully", customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	customer, err := h.customerUseCase.UpdateCustomer(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, customerErrors)
		return
	}

	response.Success(w, http.StatusOK, "Customer updated successfully", customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customerUseCase.DeleteCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err, customerErrors)
		return
	}

	response.Success(w, http.StatusOK, "Customer deleted successfully", nil)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUseCase.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, customerErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerUseCase.ListCustomers(r.Context(), inbound.ListCustomersRequest{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeError(w, err, customerErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", customers)
}
