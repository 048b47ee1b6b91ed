package receipts

// Receipt is sent exactly as built. Values are not checked here; probing the
// server's validation is part of the job.
type Receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Items        []Item `json:"items"`
	Total        string `json:"total"`
}

type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// ProcessResponse is the success body of a submission.
type ProcessResponse struct {
	ID *string `json:"id"`
}
