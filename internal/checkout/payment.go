package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

var (
	// ErrUnsupportedMethod is returned for a listed method that cannot be
	// used yet, and for unknown method IDs.
	ErrUnsupportedMethod = errors.New("payment method not supported")
	// ErrNoPaymentURL is returned when the gateway answer has no redirect.
	ErrNoPaymentURL = errors.New("no payment URL received")
	// ErrNoBookings rejects a ticket request without seat bookings.
	ErrNoBookings = errors.New("no seat bookings to ticket")
)

// Method kinds.
const (
	KindWallet = "wallet"
	KindBank   = "bank"
	KindCard   = "card"
)

// Method is one payment option shown at checkout.
type Method struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Supported bool   `json:"supported"`
}

// Method IDs.
const (
	MethodZaloPay     = "zalopay"
	MethodMoMo        = "momo"
	MethodShopeePay   = "shopee_pay"
	MethodVietcombank = "vietcombank"
	MethodTechcombank = "techcombank"
	MethodVietinBank  = "vietinbank"
	MethodVisa        = "visa"
	MethodMastercard  = "mastercard"
)

var methods = []Method{
	{ID: MethodZaloPay, Name: "ZaloPay", Kind: KindWallet, Supported: true},
	{ID: MethodMoMo, Name: "MoMo", Kind: KindWallet, Supported: true},
	{ID: MethodShopeePay, Name: "ShopeePay", Kind: KindWallet},
	{ID: MethodVietcombank, Name: "Vietcombank", Kind: KindBank},
	{ID: MethodTechcombank, Name: "Techcombank", Kind: KindBank},
	{ID: MethodVietinBank, Name: "VietinBank", Kind: KindBank},
	{ID: MethodVisa, Name: "Visa", Kind: KindCard},
	{ID: MethodMastercard, Name: "Mastercard", Kind: KindCard},
}

// Methods lists every payment option in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Backend is the part of the REST client checkout uses.  *api.Client
// satisfies it.
type Backend interface {
	CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error)
	CreateMomoPayment(ctx context.Context, ticketID string) (*model.MomoPayment, error)
	CreateZaloPayPayment(ctx context.Context, ticketID string) (*model.ZaloPayPayment, error)
}

// Service runs ticket creation and payment against a backend.
type Service struct {
	backend Backend
}

// NewService returns a Service using b.
func NewService(b Backend) *Service {
	return &Service{backend: b}
}

// CreateTicket prices cart against items and asks the backend for a ticket
// covering bookingIDs.
func (s *Service) CreateTicket(ctx context.Context, bookingIDs []string, seatTotal int64, cart *Cart, items []model.ConcessionItem) (*model.Ticket, error) {
	if len(bookingIDs) == 0 {
		return nil, ErrNoBookings
	}
	if cart == nil {
		cart = NewCart()
	}
	concessionTotal, err := cart.Total(items)
	if err != nil {
		return nil, fmt.Errorf("price concessions: %w", err)
	}
	return s.backend.CreateTicket(ctx, model.TicketRequest{
		SeatTotalPrice:       seatTotal,
		ConcessionTotalPrice: concessionTotal,
		SeatBookingIDs:       bookingIDs,
		Concessions:          cart.Lines(),
	})
}

// Pay starts a payment for ticketID and returns the gateway URL to open.
func (s *Service) Pay(ctx context.Context, ticketID, method string) (string, error) {
	var url string
	switch method {
	case MethodZaloPay:
		p, err := s.backend.CreateZaloPayPayment(ctx, ticketID)
		if err != nil {
			return "", err
		}
		url = p.OrderURL
	case MethodMoMo:
		p, err := s.backend.CreateMomoPayment(ctx, ticketID)
		if err != nil {
			return "", err
		}
		url = p.PayURL
	default:
		return "", ErrUnsupportedMethod
	}
	if url == "" {
		return "", ErrNoPaymentURL
	}
	return url, nil
}
