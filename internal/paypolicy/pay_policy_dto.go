package paypolicy

type CreatePolicyVersionRequest struct {
	PremiProduksi                 int64 `json:"premi_produksi"`
	PremiStaff                    int64 `json:"premi_staff"`
	UangMakanProduksiWeekday      int64 `json:"uang_makan_produksi_weekday"`
	UangMakanProduksiWeekendShort int64 `json:"uang_makan_produksi_weekend_short"`
	UangMakanProduksiWeekendLong  int64 `json:"uang_makan_produksi_weekend_long"`
	UangMakanStaffWeekday         int64 `json:"uang_makan_staff_weekday"`
	UangMakanStaffWeekendShort    int64 `json:"uang_makan_staff_weekend_short"`
	UangMakanStaffWeekendLong     int64 `json:"uang_makan_staff_weekend_long"`
	LemburProduksiPerJam          int64 `json:"lembur_produksi_per_jam"`
	LemburStaffPerJam             int64 `json:"lembur_staff_per_jam"`
}

type PolicyVersionResponse struct {
	ID                            string `json:"id"`
	PremiProduksi                 int64  `json:"premi_produksi"`
	PremiStaff                    int64  `json:"premi_staff"`
	UangMakanProduksiWeekday      int64  `json:"uang_makan_produksi_weekday"`
	UangMakanProduksiWeekendShort int64  `json:"uang_makan_produksi_weekend_short"`
	UangMakanProduksiWeekendLong  int64  `json:"uang_makan_produksi_weekend_long"`
	UangMakanStaffWeekday         int64  `json:"uang_makan_staff_weekday"`
	UangMakanStaffWeekendShort    int64  `json:"uang_makan_staff_weekend_short"`
	UangMakanStaffWeekendLong     int64  `json:"uang_makan_staff_weekend_long"`
	LemburProduksiPerJam          int64  `json:"lembur_produksi_per_jam"`
	LemburStaffPerJam             int64  `json:"lembur_staff_per_jam"`
	IsActive                      bool   `json:"is_active"`
	CreatedAt                     string `json:"created_at"`

	// Warnings terisi saat create jika ada field bernilai nol: sah, tapi
	// operator perlu mengkonfirmasi ke UI bahwa itu disengaja.
	Warnings []FieldWarning `json:"warnings,omitempty"`
}

type FieldWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
