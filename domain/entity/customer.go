package entity

import "time"

// Customer is a person renting vehicles
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	IDNumber      string    `json:"id_number"`
	LicenseNumber string    `json:"license_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewCustomer(id, name, email, phone, idNumber, licenseNumber string) *Customer {
	now := time.Now()
	return &Customer{
		ID:            id,
		Name:          name,
		Email:         email,
		Phone:         phone,
		IDNumber:      idNumber,
		LicenseNumber: licenseNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type CustomerFilter struct {
	Search string
	Limit  int
	Offset int
}
