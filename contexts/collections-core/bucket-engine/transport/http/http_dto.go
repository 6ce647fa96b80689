package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ClassifyRequest struct {
	DPD                int  `json:"dpd"`
	IsPTPActive        bool `json:"is_ptp_active"`
	IsVendorAssigned   bool `json:"is_vendor_assigned"`
	IsNonContact       bool `json:"is_non_contact"`
	IsWhatsAppEligible bool `json:"is_whatsapp_eligible"`
	IsIgnored          bool `json:"is_ignored"`
}

type ClassifyResponse struct {
	DPD          int    `json:"dpd"`
	BucketCode   string `json:"bucket_code"`
	BucketLabel  string `json:"bucket_label"`
	BucketNumber int    `json:"bucket_number"`
}
