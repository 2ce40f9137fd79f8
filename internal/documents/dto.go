package documents

// VendorPayload is the ad-hoc addressee block, submitted as a JSON form field.
type VendorPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// ItemPayload is one ad-hoc table row. Quantity and rate arrive as strings so
// client float formatting never leaks into money math.
type ItemPayload struct {
	Quantity    string `json:"quantity"`
	Description string `json:"description"`
	Rate        string `json:"rate"`
}

// GenerateRequest carries one ad-hoc generation submission, already decoded
// from the multipart form by the controller.
type GenerateRequest struct {
	Kind          string
	Date          string
	Suffix        string
	InvoiceNumber string

	Vendor VendorPayload
	Items  []ItemPayload

	PaymentDays   int
	ShowTerms     bool
	ShowDelivered bool
	Notes         string

	StampOriginal bool
	StampCIT      bool

	SignedBy  string
	Logo      []byte
	Signature []byte
}

// GenerateResponse points the client at the rendered file.
type GenerateResponse struct {
	Success     bool   `json:"success"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Number      string `json:"number"`
}
