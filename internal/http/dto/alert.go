package dto

type SendAlertRequest struct {
	Email    string `json:"email"`
	Location string `json:"location"`
}

// RecipientRequest sets the automatic alert address; null or "" clears it.
type RecipientRequest struct {
	Email *string `json:"email"`
}

type RecipientResponse struct {
	Email *string `json:"email"`
}
