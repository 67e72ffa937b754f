package entity

// DashboardScope selects which slice of the business a summary covers
type DashboardScope struct {
	Role   string
	UserID string
}

// DashboardSummary is the role-specific report shown on a portal landing page
type DashboardSummary struct {
	Role             string         `json:"role"`
	VehiclesByStatus map[string]int `json:"vehicles_by_status,omitempty"`
	TotalVehicles    int            `json:"total_vehicles"`
	ActiveRentals    int            `json:"active_rentals"`
	PendingRentals   int            `json:"pending_rentals"`
	TotalCustomers   int            `json:"total_customers,omitempty"`
	RevenueThisMonth float64        `json:"revenue_this_month"`
	UpcomingRentals  []*Rental      `json:"upcoming_rentals,omitempty"`
}
