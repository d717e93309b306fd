package domain

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error) // ErrDuplicateEmail
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	// UpdateHotel replaces the listing fields of a hotel owned by h.UserID.
	// Bookings are left untouched.
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	// AddBooking appends b to the hotel's bookings. It fails with
	// ErrDuplicateBooking when a booking with b.PaymentIntentID already exists.
	AddBooking(ctx context.Context, hotelID string, b Booking) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	GetOwnedHotel(ctx context.Context, ownerID, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error) // most recently updated first
	ListOwnedHotels(ctx context.Context, ownerID string) ([]Hotel, error)
	ListBookedHotels(ctx context.Context, userID string) ([]Hotel, error)
	SearchHotels(ctx context.Context, q HotelSearch) ([]Hotel, int64, error)

	Ping(ctx context.Context) error
}

type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (PaymentIntent, error) // ErrNotFound
}

type ImageUploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type Event struct {
	Type    string `json:"type"` // hotel.created | hotel.updated | booking.created
	HotelID string `json:"hotelId"`
	UserID  string `json:"userId"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventHotelCreated   = "hotel.created"
	EventHotelUpdated   = "hotel.updated"
	EventBookingCreated = "booking.created"
)

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
