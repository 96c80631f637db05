package booking

import (
	"encoding/json"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentFetch is the slice of a gateway payment record the verifier
// cares about.
type PaymentFetch struct {
	Status      string
	AmountPaise float64
}

// PaymentGateway wraps the payment provider so the service can be
// tested without network calls.
type PaymentGateway interface {
	CreateOrder(amountPaise int, receipt string, notes map[string]interface{}) (orderID string, err error)
	FetchPayment(paymentID string) (PaymentFetch, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(key, secret string) PaymentGateway {
	return &razorpayGateway{client: razorpay.NewClient(key, secret)}
}

func (g *razorpayGateway) CreateOrder(amountPaise int, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("order create failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", errors.New("order create returned no id")
	}

	return orderID, nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (PaymentFetch, error) {
	payment, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return PaymentFetch{}, fmt.Errorf("payment fetch failed: %w", err)
	}

	status, _ := payment["status"].(string)

	var amount float64
	switch v := payment["amount"].(type) {
	case float64:
		amount = v
	case json.Number:
		amount, _ = v.Float64()
	}

	return PaymentFetch{Status: status, AmountPaise: amount}, nil
}
