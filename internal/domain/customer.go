package domain

import "strings"

// NotAvailable is shown when the backend record carries no value for a derived column.
const NotAvailable = "N/A"

// OtherDetail is one entry of the backend's otherDetails list.
type OtherDetail struct {
	PaymentTerms string `json:"paymentTerms"`
	Remarks      string `json:"remarks"`
}

// RawCustomer is the backend's representation of a customer.
type RawCustomer struct {
	ID           string        `json:"_id"`
	DisplayName  string        `json:"displayName"`
	CompanyName  string        `json:"companyName"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phoneNumber"`
	UserID       string        `json:"userId"`
	OtherDetails []OtherDetail `json:"otherDetails"`
}

// CustomerView is the flattened projection used for rendering and search.
type CustomerView struct {
	ID            string
	Name          string
	CompanyName   string
	Email         string
	WorkPhone     string
	Receivables   string
	UnusedCredits string
}

// View projects the raw record.
func (r RawCustomer) View() CustomerView {
	v := CustomerView{
		ID:            r.ID,
		Name:          r.DisplayName,
		CompanyName:   r.CompanyName,
		Email:         r.Email,
		WorkPhone:     r.PhoneNumber,
		Receivables:   NotAvailable,
		UnusedCredits: NotAvailable,
	}
	if len(r.OtherDetails) > 0 {
		if terms := r.OtherDetails[0].PaymentTerms; terms != "" {
			v.Receivables = terms
		}
		if remarks := r.OtherDetails[0].Remarks; remarks != "" {
			v.UnusedCredits = remarks
		}
	}
	return v
}

// OwnedViews keeps the records owned by userID and projects them, preserving order.
func OwnedViews(raw []RawCustomer, userID string) []CustomerView {
	views := make([]CustomerView, 0, len(raw))
	for _, r := range raw {
		if r.UserID != userID {
			continue
		}
		views = append(views, r.View())
	}
	return views
}

// SearchCustomers returns the views whose name, company name, email or phone
// contain term, ignoring case. An empty term matches everything.
func SearchCustomers(views []CustomerView, term string) []CustomerView {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]CustomerView, 0, len(views))
	for _, v := range views {
		if needle == "" || v.matches(needle) {
			out = append(out, v)
		}
	}
	return out
}

func (v CustomerView) matches(needle string) bool {
	for _, field := range []string{v.Name, v.CompanyName, v.Email, v.WorkPhone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// UploadFile is a file picked for bulk import. Type and size are not checked.
type UploadFile struct {
	Name        string
	ContentType string
	Content     []byte
}
