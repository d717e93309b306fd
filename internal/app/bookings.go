package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const currencyUSD = "usd"

// metadata keys attached to every payment intent
const (
	metaHotelID = "hotelId"
	metaUserID  = "userId"
)

type BookingService struct {
	hotels   domain.HotelRepository
	payments domain.PaymentProcessor
	events   domain.EventPublisher
	queries  *QueryService
	now      func() time.Time
}

func NewBookingService(h domain.HotelRepository, p domain.PaymentProcessor, e domain.EventPublisher, q *QueryService) *BookingService {
	return &BookingService{hotels: h, payments: p, events: e, queries: q, now: time.Now}
}

type PaymentIntentResult struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	TotalCost       float64 `json:"totalCost"`
}

// CreatePaymentIntent prices a stay at the hotel's current nightly rate and
// asks the processor to authorise that amount, tagged with hotel and user.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, hotelID, userID string, nights int) (PaymentIntentResult, error) {
	if nights < 1 {
		ve := &domain.ValidationError{}
		ve.Add("numberOfNights", "must be at least 1")
		return PaymentIntentResult{}, ve
	}

	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return PaymentIntentResult{}, err
	}

	total := h.PricePerNight * float64(nights)
	pi, err := s.payments.CreatePaymentIntent(ctx, domain.PaymentIntentParams{
		Amount:   toMinorUnits(total),
		Currency: currencyUSD,
		Metadata: map[string]string{metaHotelID: hotelID, metaUserID: userID},
	})
	if err != nil {
		return PaymentIntentResult{}, domain.UpstreamError("payment processor", err)
	}
	if pi.ClientSecret == "" {
		return PaymentIntentResult{}, domain.UpstreamError("payment processor", errors.New("missing client secret"))
	}

	return PaymentIntentResult{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		TotalCost:       total,
	}, nil
}

type BookingRequest struct {
	FirstName       string    `json:"firstName" validate:"required"`
	LastName        string    `json:"lastName" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	AdultCount      int       `json:"adultCount" validate:"gte=1"`
	ChildCount      int       `json:"childCount" validate:"gte=0"`
	CheckIn         time.Time `json:"checkIn" validate:"required"`
	CheckOut        time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
	PaymentIntentID string    `json:"paymentIntentId" validate:"required"`
	// TotalCost is accepted for compatibility with clients that echo it back;
	// the stored cost always comes from the verified payment intent.
	TotalCost float64 `json:"totalCost"`
}

// CommitBooking verifies the referenced payment intent belongs to this hotel
// and user and has succeeded, then appends the booking.
func (s *BookingService) CommitBooking(ctx context.Context, hotelID, userID string, req BookingRequest) (domain.Booking, error) {
	if ve := validateStruct(req); ve != nil {
		return domain.Booking{}, ve
	}

	pi, err := s.payments.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			observability.ObserveBooking("rejected")
			return domain.Booking{}, &domain.PaymentRejectedError{Reason: "payment intent not found"}
		}
		return domain.Booking{}, domain.UpstreamError("payment processor", err)
	}

	if pi.Metadata[metaHotelID] != hotelID || pi.Metadata[metaUserID] != userID {
		observability.ObserveBooking("rejected")
		return domain.Booking{}, &domain.PaymentRejectedError{Reason: "payment intent mismatch"}
	}

	if pi.Status != domain.PaymentStatusSucceeded {
		observability.ObserveBooking("rejected")
		return domain.Booking{}, &domain.PaymentRejectedError{
			Reason: fmt.Sprintf("payment intent not succeeded. Status: %s", pi.Status),
		}
	}

	b := domain.Booking{
		UserID:          userID,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		AdultCount:      req.AdultCount,
		ChildCount:      req.ChildCount,
		CheckIn:         req.CheckIn.UTC(),
		CheckOut:        req.CheckOut.UTC(),
		PaymentIntentID: pi.ID,
		TotalCost:       fromMinorUnits(pi.Amount),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.hotels.AddBooking(ctx, hotelID, b); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) {
			observability.ObserveBooking("duplicate")
		}
		return domain.Booking{}, err
	}
	observability.ObserveBooking("created")

	if s.queries != nil {
		s.queries.InvalidateHotel(ctx, hotelID)
	}
	publish(ctx, s.events, domain.Event{Type: domain.EventBookingCreated, HotelID: hotelID, UserID: userID, Payload: b})
	return b, nil
}

// MyBookings returns each hotel the user booked, carrying only that user's bookings.
func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]domain.Hotel, error) {
	hs, err := s.hotels.ListBookedHotels(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.BookingsFor(userID))
	}
	return out, nil
}

func toMinorUnits(amount float64) int64 { return int64(math.Round(amount * 100)) }

func fromMinorUnits(amount int64) float64 { return float64(amount) / 100 }

// publish is best effort; the write it describes has already happened.
func publish(ctx context.Context, p domain.EventPublisher, e domain.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", e.Type).Str("hotel_id", e.HotelID).Msg("event publish failed")
	}
}
