package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

var menu = []model.ConcessionItem{
	{ID: "pop", Name: "Popcorn", Price: "45000.00", Category: model.CategorySnack},
	{ID: "coke", Name: "Coke", Price: "25000", Category: model.CategoryDrink},
}

func TestCartUpdateClampsAndRemoves(t *testing.T) {
	c := NewCart()
	assert.Equal(t, 0, c.Update("pop", -1))
	assert.Empty(t, c.Lines())

	assert.Equal(t, 2, c.Update("pop", 2))
	assert.Equal(t, 1, c.Update("coke", 1))
	assert.Equal(t, 3, c.TotalItems())

	assert.Equal(t, 0, c.Update("pop", -5))
	assert.Equal(t, []model.ConcessionLine{{ItemID: "coke", Quantity: 1}}, c.Lines())

	c.Update("pop", 1)
	assert.Equal(t, []model.ConcessionLine{{ItemID: "coke", Quantity: 1}, {ItemID: "pop", Quantity: 1}}, c.Lines())
}

func TestCartTotal(t *testing.T) {
	c := NewCart(model.ConcessionLine{ItemID: "pop", Quantity: 2}, model.ConcessionLine{ItemID: "coke", Quantity: 1})
	total, err := c.Total(menu)
	require.NoError(t, err)
	assert.Equal(t, int64(115000), total)

	_, err = NewCart(model.ConcessionLine{ItemID: "bad", Quantity: 1}).Total([]model.ConcessionItem{{ID: "bad", Price: "abc"}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownItem)
}

func TestCartTotalRejectsItemsOffTheMenu(t *testing.T) {
	c := NewCart(model.ConcessionLine{ItemID: "pop", Quantity: 1}, model.ConcessionLine{ItemID: "gone", Quantity: 3})
	_, err := c.Total(menu)
	require.ErrorIs(t, err, ErrUnknownItem)
	assert.Contains(t, err.Error(), "gone")
}

type fakeBackend struct {
	ticketReq model.TicketRequest
	momo      *model.MomoPayment
	zalo      *model.ZaloPayPayment
}

func (f *fakeBackend) CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	f.ticketReq = req
	return &model.Ticket{ID: "t1"}, nil
}

func (f *fakeBackend) CreateMomoPayment(ctx context.Context, ticketID string) (*model.MomoPayment, error) {
	return f.momo, nil
}

func (f *fakeBackend) CreateZaloPayPayment(ctx context.Context, ticketID string) (*model.ZaloPayPayment, error) {
	return f.zalo, nil
}

func TestCreateTicketWithEmptyCart(t *testing.T) {
	fb := &fakeBackend{}
	tk, err := NewService(fb).CreateTicket(context.Background(), []string{"b1", "b2"}, 170000, nil, menu)
	require.NoError(t, err)
	assert.Equal(t, "t1", tk.ID)
	assert.Equal(t, int64(170000), fb.ticketReq.SeatTotalPrice)
	assert.Zero(t, fb.ticketReq.ConcessionTotalPrice)
	assert.NotNil(t, fb.ticketReq.Concessions)
	assert.Empty(t, fb.ticketReq.Concessions)

	_, err = NewService(fb).CreateTicket(context.Background(), nil, 0, nil, menu)
	assert.ErrorIs(t, err, ErrNoBookings)
}

func TestCreateTicketRejectsUnknownItem(t *testing.T) {
	fb := &fakeBackend{}
	cart := NewCart(model.ConcessionLine{ItemID: "ghost", Quantity: 2})
	_, err := NewService(fb).CreateTicket(context.Background(), []string{"b1"}, 85000, cart, menu)
	require.ErrorIs(t, err, ErrUnknownItem)
	assert.Empty(t, fb.ticketReq.SeatBookingIDs)
}

func TestPay(t *testing.T) {
	fb := &fakeBackend{
		zalo: &model.ZaloPayPayment{OrderURL: "https://zalo.example/pay"},
		momo: &model.MomoPayment{},
	}
	svc := NewService(fb)

	url, err := svc.Pay(context.Background(), "t1", MethodZaloPay)
	require.NoError(t, err)
	assert.Equal(t, "https://zalo.example/pay", url)

	_, err = svc.Pay(context.Background(), "t1", MethodMoMo)
	assert.ErrorIs(t, err, ErrNoPaymentURL)

	_, err = svc.Pay(context.Background(), "t1", MethodVisa)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMethodsListsSupportedWallets(t *testing.T) {
	ms := Methods()
	require.Len(t, ms, 8)
	var supported []string
	for _, m := range ms {
		if m.Supported {
			supported = append(supported, m.ID)
		}
	}
	assert.Equal(t, []string{MethodZaloPay, MethodMoMo}, supported)
}
