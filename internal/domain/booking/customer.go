package booking

import "strings"

// CustomerContact is how the customer can be reached about a booking. The
// service stores it as given and never interprets it.
type CustomerContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (c CustomerContact) Normalize() CustomerContact {
	return CustomerContact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}
