package payroll

type DeductionRequest struct {
	Label  string `json:"label" binding:"required"`
	Amount int64  `json:"amount"`
}

type GeneratePayrollRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodType  string `json:"period_type" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`

	// PieceRateEarning wajib untuk karyawan borongan, diabaikan selainnya.
	PieceRateEarning int64              `json:"piece_rate_earning"`
	Deductions       []DeductionRequest `json:"deductions"`
	// Exclusions rentang tanggal yang tidak disintesis sebagai mangkir
	// (cuti di luar tanggungan, terminasi di tengah periode).
	Exclusions []ExclusionRequest `json:"exclusions"`
}

type ExclusionRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type BatchGenerateRequest struct {
	PeriodType  string `json:"period_type" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	// Workers jumlah karyawan yang diproses paralel, default 4.
	Workers int `json:"workers"`
}

type BatchResultResponse struct {
	TotalEmployees int      `json:"total_employees"`
	Generated      int      `json:"generated"`
	NeedsReview    int      `json:"needs_review"`
	Failed         int      `json:"failed"`
	Cancelled      bool     `json:"cancelled"`
	FailedIDs      []string `json:"failed_employee_ids,omitempty"`
}

type DetailGajiResponse struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type PayrollResponse struct {
	ID            string `json:"id"`
	PayrollNumber string `json:"payroll_number"`
	EmployeeID    string `json:"employee_id"`
	PeriodType    string `json:"period_type"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`

	BasePay         int64 `json:"base_pay"`
	OvertimePay     int64 `json:"overtime_pay"`
	MealAllowance   int64 `json:"meal_allowance"`
	Premium         int64 `json:"premium"`
	TotalEarnings   int64 `json:"total_earnings"`
	TotalDeductions int64 `json:"total_deductions"`
	NetPay          int64 `json:"net_pay"`

	DaysPresent        int `json:"days_present"`
	DaysLate           int `json:"days_late"`
	DaysLeave          int `json:"days_leave"`
	DaysUnexcused      int `json:"days_unexcused"`
	TotalOvertimeHours int `json:"total_overtime_hours"`
	AttendanceRate     int `json:"attendance_rate"`

	Status  string               `json:"status"`
	PaidAt  *string              `json:"paid_at,omitempty"`
	Details []DetailGajiResponse `json:"details,omitempty"`
}
