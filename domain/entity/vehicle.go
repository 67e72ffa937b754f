package entity

import (
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusRented, VehicleStatusMaintenance:
		return true
	}
	return false
}

// Vehicle is a car in the rental fleet
type Vehicle struct {
	ID           string        `json:"id"`
	Registration string        `json:"registration"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	DailyRate    float64       `json:"daily_rate"`
	Status       VehicleStatus `json:"status"`
	OwnerID      *string       `json:"owner_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func NewVehicle(id, registration, make, model string, year int, dailyRate float64, ownerID *string) *Vehicle {
	now := time.Now()
	return &Vehicle{
		ID:           id,
		Registration: NormalizeRegistration(registration),
		Make:         make,
		Model:        model,
		Year:         year,
		DailyRate:    dailyRate,
		Status:       VehicleStatusAvailable,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeRegistration upper-cases a plate and drops inner spaces: "kcb 123a" -> "KCB123A"
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.Join(strings.Fields(reg), ""))
}

func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

func (v *Vehicle) MarkRented() error {
	if !v.IsAvailable() {
		return ErrVehicleUnavailable
	}
	v.Status = VehicleStatusRented
	v.UpdatedAt = time.Now()
	return nil
}

func (v *Vehicle) Release() {
	if v.Status == VehicleStatusRented {
		v.Status = VehicleStatusAvailable
		v.UpdatedAt = time.Now()
	}
}

// VehicleFilter represents filters for listing vehicles
type VehicleFilter struct {
	Status  *VehicleStatus
	OwnerID *string
	Search  string
	Limit   int
	Offset  int
}
