package attendance

type ImportScanRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	ScanIn     *string `json:"scan_in"`
	ScanOut    *string `json:"scan_out"`
	Source     string  `json:"source"`
}

type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"required"`
	ScanIn     *string `json:"scan_in"`
	ScanOut    *string `json:"scan_out"`
	Note       *string `json:"note"`
}

type AttendanceResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	Date                 string  `json:"date"`
	ScanIn               *string `json:"scan_in,omitempty"`
	ScanOut              *string `json:"scan_out,omitempty"`
	Status               string  `json:"status"`
	DayKind              string  `json:"day_kind"`
	Source               string  `json:"source"`
	OvertimeMinutes      int     `json:"overtime_minutes"`
	OvertimeHours        int     `json:"overtime_hours"`
	OvertimePay          int64   `json:"overtime_pay"`
	MealAllowance        int64   `json:"meal_allowance"`
	Premium              int64   `json:"premium"`
	TotalSupplementalPay int64   `json:"total_supplemental_pay"`
	SixDayStreak         bool    `json:"six_day_streak"`
	Finalized            bool    `json:"finalized"`
	Note                 *string `json:"note,omitempty"`
}
