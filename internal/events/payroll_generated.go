package events

import "time"

const PayrollGeneratedTopic = "hr.payroll.generated.v1"

type PayrollGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PayrollID   string    `json:"payroll_id"`
	EmployeeID  string    `json:"employee_id"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	NetPay      int64     `json:"net_pay"`
	NeedsReview bool      `json:"needs_review"`
	OccurredAt  time.Time `json:"occurred_at"`
}
