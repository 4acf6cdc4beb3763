package employee

type EmployeeResponse struct {
	ID              string  `json:"id"`
	EmployeeNumber  string  `json:"employee_number"`
	FullName        string  `json:"full_name"`
	RoleKaryawan    string  `json:"role_karyawan"`
	JamKerjaMasuk   string  `json:"jam_kerja_masuk"`
	JamKerjaPulang  string  `json:"jam_kerja_pulang"`
	SalaryCategory  string  `json:"salary_category"`
	MonthlySalary   int64   `json:"monthly_salary"`
	DailyRate       int64   `json:"daily_rate"`
	HireDate        string  `json:"hire_date"`
	TerminationDate *string `json:"termination_date,omitempty"`
}

type EmployeeOption struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}
