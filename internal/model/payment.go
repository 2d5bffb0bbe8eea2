package model

// PaymentRequest is the body of both mobile payment endpoints.
type PaymentRequest struct {
	TicketID string `json:"ticketId"`
}

// MomoPayment is the response of POST /payments/create-momo-mobile.  The
// client only needs PayURL; the rest is kept for display and logging.
type MomoPayment struct {
	PartnerCode string `json:"partnerCode,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
	Amount      int64  `json:"amount,omitempty"`
	PayURL      string `json:"payUrl"`
	Deeplink    string `json:"deeplink,omitempty"`
	ResultCode  int    `json:"resultCode,omitempty"`
}

// ZaloPayPayment is the response of POST /payments/create-zalopay-mobile.
type ZaloPayPayment struct {
	ReturnCode    int    `json:"return_code,omitempty"`
	ReturnMessage string `json:"return_message,omitempty"`
	OrderURL      string `json:"order_url"`
	ZpTransToken  string `json:"zp_trans_token,omitempty"`
	AppTransID    string `json:"app_trans_id,omitempty"`
}
