package contracts

type CreateCheckoutRequest struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Currency     string  `json:"currency"`
	BuyerEmail   string  `json:"buyer_email"`
}

type CreateCheckoutResponse struct {
	PayPalOrderID string `json:"paypal_order_id"`
	Status        string `json:"status"`
}

type CaptureOrderRequest struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Currency     string  `json:"currency"`
	BuyerID      string  `json:"buyer_id"`
	BuyerEmail   string  `json:"buyer_email"`
	CreatorID    string  `json:"creator_id"`
	CreatorName  string  `json:"creator_name"`
	CreatorEmail string  `json:"creator_email"`
}

type RefundOrderRequest struct {
	Reason string `json:"reason"`
}

type DispatchPayoutRequest struct {
	SellerID    string  `json:"seller_id"`
	SellerEmail string  `json:"seller_email"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type DispatchPayoutBatchRequest struct {
	PayoutIDs []string `json:"payout_ids"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
