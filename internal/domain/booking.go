package domain

import "time"

// Booking is embedded in a Hotel. TotalCost is captured from the verified
// payment intent and is never recomputed from the hotel's current price.
type Booking struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	AdultCount      int       `json:"adultCount"`
	ChildCount      int       `json:"childCount"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	PaymentIntentID string    `json:"paymentIntentId"`
	TotalCost       float64   `json:"totalCost"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PaymentIntent is the processor's record of an attempt to charge an amount.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // smallest currency unit
	Currency     string
	Status       string
	Metadata     map[string]string
}

const PaymentStatusSucceeded = "succeeded"

type PaymentIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Image is one uploaded file on its way to the image host.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MaxImageBytes bounds a single uploaded hotel image.
const MaxImageBytes = 5 << 20
