package domain

import "time"

type ReportSummary struct {
	TotalUsers       int64 `json:"total_users"`
	TotalDepartments int64 `json:"total_departments"`
	TotalServices    int64 `json:"total_services"`
	TotalRequests    int64 `json:"total_requests"`
	AwaitingPayment  int64 `json:"awaiting_payment"`
	UnderReview      int64 `json:"under_review"`
	Approved         int64 `json:"approved_requests"`
	Rejected         int64 `json:"rejected_requests"`
	TotalPayments    int64 `json:"total_payments"`
}

// ActivityEntry is one line of the admin activity log.
type ActivityEntry struct {
	UserName       string    `json:"user_name"`
	ServiceName    string    `json:"service_name"`
	DepartmentName string    `json:"department_name"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type Report struct {
	Summary     ReportSummary   `json:"summary"`
	Details     []ActivityEntry `json:"details"`
	GeneratedAt time.Time       `json:"generated_at"`
}
