package dto

// AddTransactionRequest defines the data needed to append one income/expense
// entry to a user's household ledger. Amount is the raw form input, coerced
// to a strictly positive whole number by the service.
type AddTransactionRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Type     string `json:"type" validate:"required,oneof=income expense"`
	Amount   string `json:"amount" validate:"required"`
	Category string `json:"category" validate:"omitempty,max=30"`
}
