package dto

// CreditCardRequest carries the card details stored for the current user
type CreditCardRequest struct {
	CardNumber     string `json:"card_number" validate:"required"`
	ExpirationDate string `json:"expiration_date" validate:"required" example:"2027-05-04"`
	CVV            string `json:"cvv" validate:"required"`
}

// CreditCardResponse is the read-side shape. The card number is masked to
// its last four digits and the CVV is never returned.
type CreditCardResponse struct {
	CardNumber     string `json:"card_number" example:"**** **** **** 3456"`
	ExpirationDate string `json:"expiration_date"`
}
