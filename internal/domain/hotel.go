package domain

import "time"

// MaxHotelImages bounds Hotel.ImageURLs.
const MaxHotelImages = 6

type Hotel struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	AdultCount    int       `json:"adultCount"`
	ChildCount    int       `json:"childCount"`
	Facilities    []string  `json:"facilities"`
	PricePerNight float64   `json:"pricePerNight"`
	StarRating    int       `json:"starRating"`
	ImageURLs     []string  `json:"imageUrls"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Bookings      []Booking `json:"bookings,omitempty"`
}

// BookingsFor returns a copy of h whose bookings are only the ones made by userID.
func (h Hotel) BookingsFor(userID string) Hotel {
	out := h
	out.Bookings = make([]Booking, 0, len(h.Bookings))
	for _, b := range h.Bookings {
		if b.UserID == userID {
			out.Bookings = append(out.Bookings, b)
		}
	}
	return out
}

// HasBookingFor reports whether any booking on h belongs to userID.
func (h Hotel) HasBookingFor(userID string) bool {
	for _, b := range h.Bookings {
		if b.UserID == userID {
			return true
		}
	}
	return false
}
