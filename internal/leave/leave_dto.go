package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=IZIN CUTI"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type LeaveResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalDays  int     `json:"total_days"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	ApprovedBy *string `json:"approved_by,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`
}
