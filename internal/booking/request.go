package booking

// CreateOrderResponse carries what the checkout page needs to open the
// payment window.
type CreateOrderResponse struct {
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"` // advance in INR
	Currency    string  `json:"currency"`
	RazorpayKey string  `json:"razorpay_key"`
}

// VerifyPaymentRequest is the checkout callback payload.
type VerifyPaymentRequest struct {
	OrderID     string `json:"orderID" binding:"required"`
	PaymentID   string `json:"paymentID" binding:"required"`
	RazorpaySig string `json:"razorpaySig" binding:"required"`
}

// OfflineBookingInput is a desk booking recorded by staff, no online
// payment attached.
type OfflineBookingInput struct {
	BookingName      string   `json:"bookingName" binding:"required"`
	People           int      `json:"people" binding:"required"`
	WhatsApp         string   `json:"whatsapp"`
	Email            string   `json:"email"`
	WantDecoration   bool     `json:"wantDecoration"`
	Occasion         string   `json:"occasion"`
	ExtraDecorations []string `json:"extraDecorations"`
	EventDate        string   `json:"eventDate" binding:"required"`
	SlotType         string   `json:"slotType" binding:"required"`
	SlotID           int      `json:"slotId" binding:"required"`
	TotalAmount      float64  `json:"totalAmount"`
	AdvanceAmount    float64  `json:"advanceAmount"`
}
