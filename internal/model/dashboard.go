package model

type DashboardStats struct {
	Students      int `json:"students"`
	Schools       int `json:"schools"`
	Tests         int `json:"tests"`
	Worksheets    int `json:"worksheets"`
	ActiveMembers int `json:"activeMembers"`
	OpenTickets   int `json:"openTickets"`
}

type RevenuePoint struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

type Dashboard struct {
	Stats         DashboardStats
	Revenue       []RevenuePoint
	RecentTickets []SupportTicket
}
