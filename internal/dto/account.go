package dto

// AddAccountRequest defines the data needed to open a new account in a user's
// partition. Balance is the raw form input; the service coerces it to a
// non-negative whole number, defaulting to 0 when omitted.
type AddAccountRequest struct {
	Name     string `json:"name" validate:"required,max=30"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}
