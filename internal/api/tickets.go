package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// CreateTicket turns seat bookings and concessions into a payable ticket.
func (c *Client) CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	if req.Concessions == nil {
		req.Concessions = []model.ConcessionLine{}
	}
	var t model.Ticket
	if err := c.do(ctx, call{endpoint: "tickets.create", method: http.MethodPost, path: "/tickets", body: req}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTicket returns a ticket with its seats, concessions and totals.
func (c *Client) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	if err := c.do(ctx, call{endpoint: "tickets.get", method: http.MethodGet, path: "/tickets/" + pathID(id)}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateMomoPayment starts a MoMo wallet payment for a ticket.
func (c *Client) CreateMomoPayment(ctx context.Context, ticketID string) (*model.MomoPayment, error) {
	var p model.MomoPayment
	err := c.do(ctx, call{
		endpoint: "payments.momo",
		method:   http.MethodPost,
		path:     "/payments/create-momo-mobile",
		body:     model.PaymentRequest{TicketID: ticketID},
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateZaloPayPayment starts a ZaloPay wallet payment for a ticket.
func (c *Client) CreateZaloPayPayment(ctx context.Context, ticketID string) (*model.ZaloPayPayment, error) {
	var p model.ZaloPayPayment
	err := c.do(ctx, call{
		endpoint: "payments.zalopay",
		method:   http.MethodPost,
		path:     "/payments/create-zalopay-mobile",
		body:     model.PaymentRequest{TicketID: ticketID},
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
