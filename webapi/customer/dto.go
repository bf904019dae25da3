package customer

// CreateCustomerRequest is the body of POST /openfinance/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	CPF   string `json:"cpf" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// ProfileResponse is the consent-protected customer profile view.
type ProfileResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// LookupResponse is the CPF lookup result.
type LookupResponse struct {
	ID  string `json:"_id"`
	CPF string `json:"cpf"`
}

// AccountSummary is one entry of the protected account listing.
type AccountSummary struct {
	ID      string  `json:"_id"`
	Type    string  `json:"type"`
	Branch  string  `json:"branch"`
	Number  string  `json:"number"`
	Balance float64 `json:"balance"`
}
