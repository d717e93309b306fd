package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

type bookingFixture struct {
	store    *memory.Store
	payments *fakePayments
	events   *fakeEvents
	svc      *app.BookingService
	hotel    domain.Hotel
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	store := memory.New()
	h, err := store.CreateHotel(context.Background(), domain.Hotel{UserID: "owner", Name: "Seaview", PricePerNight: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	payments := &fakePayments{}
	events := &fakeEvents{}
	q := app.NewQueryService(store, nil, time.Minute)
	return bookingFixture{
		store: store, payments: payments, events: events,
		svc:   app.NewBookingService(store, payments, events, q),
		hotel: h,
	}
}

func bookingReq(piID string) app.BookingRequest {
	in := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return app.BookingRequest{
		FirstName: "Ada", LastName: "L", Email: "ada@example.com",
		AdultCount: 2, ChildCount: 0,
		CheckIn: in, CheckOut: in.Add(72 * time.Hour),
		PaymentIntentID: piID,
	}
}

func TestCreatePaymentIntent_PricesStay(t *testing.T) {
	fx := newBookingFixture(t)
	res, err := fx.svc.CreatePaymentIntent(context.Background(), fx.hotel.ID, "u1", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.TotalCost != 300 || res.ClientSecret == "" || res.PaymentIntentID == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	p := fx.payments.created[0]
	if p.Amount != 30000 || p.Currency != "usd" || p.Metadata["hotelId"] != fx.hotel.ID || p.Metadata["userId"] != "u1" {
		t.Fatalf("unexpected intent params: %+v", p)
	}
}

func TestCreatePaymentIntent_Errors(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.CreatePaymentIntent(ctx, fx.hotel.ID, "u1", 0); fieldMessages(err)["numberOfNights"] == "" {
		t.Fatalf("expected numberOfNights validation, got %v", err)
	}
	if _, err := fx.svc.CreatePaymentIntent(ctx, "missing", "u1", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	fx.payments.err = errors.New("stripe down")
	if _, err := fx.svc.CreatePaymentIntent(ctx, fx.hotel.ID, "u1", 2); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestCommitBooking_HappyPathAndDuplicate(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	res, _ := fx.svc.CreatePaymentIntent(ctx, fx.hotel.ID, "u1", 3)
	fx.payments.succeed(res.PaymentIntentID)

	req := bookingReq(res.PaymentIntentID)
	req.TotalCost = 1 // ignored
	b, err := fx.svc.CommitBooking(ctx, fx.hotel.ID, "u1", req)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if b.TotalCost != 300 || b.UserID != "u1" {
		t.Fatalf("unexpected booking: %+v", b)
	}

	if _, err := fx.svc.CommitBooking(ctx, fx.hotel.ID, "u1", req); !errors.Is(err, domain.ErrDuplicateBooking) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	got := fx.events.types()
	if len(got) != 1 || got[0] != domain.EventBookingCreated {
		t.Fatalf("events: %v", got)
	}
}

func TestCommitBooking_Rejections(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	res, _ := fx.svc.CreatePaymentIntent(ctx, fx.hotel.ID, "u1", 1)

	var pr *domain.PaymentRejectedError

	_, err := fx.svc.CommitBooking(ctx, fx.hotel.ID, "u1", bookingReq(res.PaymentIntentID))
	if !errors.As(err, &pr) || pr.Reason != "payment intent not succeeded. Status: requires_payment_method" {
		t.Fatalf("expected not-succeeded rejection, got %v", err)
	}

	fx.payments.succeed(res.PaymentIntentID)

	_, err = fx.svc.CommitBooking(ctx, fx.hotel.ID, "u2", bookingReq(res.PaymentIntentID))
	if !errors.As(err, &pr) || pr.Reason != "payment intent mismatch" {
		t.Fatalf("expected mismatch for other user, got %v", err)
	}

	other, _ := fx.store.CreateHotel(ctx, domain.Hotel{UserID: "owner", PricePerNight: 5})
	_, err = fx.svc.CommitBooking(ctx, other.ID, "u1", bookingReq(res.PaymentIntentID))
	if !errors.As(err, &pr) || pr.Reason != "payment intent mismatch" {
		t.Fatalf("expected mismatch for other hotel, got %v", err)
	}

	_, err = fx.svc.CommitBooking(ctx, fx.hotel.ID, "u1", bookingReq("pi_unknown"))
	if !errors.As(err, &pr) || pr.Reason != "payment intent not found" {
		t.Fatalf("expected not found rejection, got %v", err)
	}

	h, _ := fx.store.GetHotel(ctx, fx.hotel.ID)
	if len(h.Bookings) != 0 {
		t.Fatalf("rejected commits must not add bookings: %+v", h.Bookings)
	}
}

func TestCommitBooking_Validation(t *testing.T) {
	fx := newBookingFixture(t)
	req := bookingReq("pi_1")
	req.Email = "nope"
	req.CheckOut = req.CheckIn
	_, err := fx.svc.CommitBooking(context.Background(), fx.hotel.ID, "u1", req)
	msgs := fieldMessages(err)
	if msgs["email"] == "" || msgs["checkOut"] == "" {
		t.Fatalf("expected email and checkOut errors, got %v", err)
	}
}

func TestCommitBooking_TotalCostSurvivesPriceChange(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	res, _ := fx.svc.CreatePaymentIntent(ctx, fx.hotel.ID, "u1", 3)
	fx.payments.succeed(res.PaymentIntentID)
	if _, err := fx.svc.CommitBooking(ctx, fx.hotel.ID, "u1", bookingReq(res.PaymentIntentID)); err != nil {
		t.Fatalf("commit: %v", err)
	}

	h, _ := fx.store.GetHotel(ctx, fx.hotel.ID)
	h.PricePerNight = 999
	if _, err := fx.store.UpdateHotel(ctx, h); err != nil {
		t.Fatalf("update: %v", err)
	}

	mine, err := fx.svc.MyBookings(ctx, "u1")
	if err != nil {
		t.Fatalf("my bookings: %v", err)
	}
	if len(mine) != 1 || len(mine[0].Bookings) != 1 || mine[0].Bookings[0].TotalCost != 300 {
		t.Fatalf("unexpected bookings: %+v", mine)
	}
}

func TestMyBookings_OnlyCallersBookings(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	_ = fx.store.AddBooking(ctx, fx.hotel.ID, domain.Booking{UserID: "u1", PaymentIntentID: "a"})
	_ = fx.store.AddBooking(ctx, fx.hotel.ID, domain.Booking{UserID: "u2", PaymentIntentID: "b"})

	mine, _ := fx.svc.MyBookings(ctx, "u1")
	if len(mine) != 1 || len(mine[0].Bookings) != 1 || mine[0].Bookings[0].UserID != "u1" {
		t.Fatalf("unexpected: %+v", mine)
	}
	none, _ := fx.svc.MyBookings(ctx, "u3")
	if len(none) != 0 {
		t.Fatalf("expected no hotels for u3, got %d", len(none))
	}
}
