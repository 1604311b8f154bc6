package dto

// CustomerRow is a customer table row.
type CustomerRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompanyName   string `json:"company_name"`
	Email         string `json:"email"`
	WorkPhone     string `json:"work_phone"`
	Receivables   string `json:"receivables"`
	UnusedCredits string `json:"unused_credits"`
	EditURL       string `json:"edit_url"`
	ViewURL       string `json:"view_url"`
	DeleteURL     string `json:"delete_url"`
}

// CustomerTableResponse is the JSON rendition of the customer table.
type CustomerTableResponse struct {
	State        string        `json:"state"`
	Search       string        `json:"search,omitempty"`
	Total        int           `json:"total"`
	SkeletonRows int           `json:"skeleton_rows,omitempty"`
	Error        string        `json:"error,omitempty"`
	SelectedFile string        `json:"selected_file,omitempty"`
	Rows         []CustomerRow `json:"rows"`
}
