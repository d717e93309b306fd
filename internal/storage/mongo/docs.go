package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel_booking/internal/domain"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
}

type hotelDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"userId"`
	Name          string             `bson:"name"`
	City          string             `bson:"city"`
	Country       string             `bson:"country"`
	Description   string             `bson:"description"`
	Type          string             `bson:"type"`
	AdultCount    int                `bson:"adultCount"`
	ChildCount    int                `bson:"childCount"`
	Facilities    []string           `bson:"facilities"`
	PricePerNight float64            `bson:"pricePerNight"`
	StarRating    int                `bson:"starRating"`
	ImageURLs     []string           `bson:"imageUrls"`
	LastUpdated   time.Time          `bson:"lastUpdated"`
	Bookings      []bookingDoc       `bson:"bookings"`
}

type bookingDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	UserID          string             `bson:"userId"`
	FirstName       string             `bson:"firstName"`
	LastName        string             `bson:"lastName"`
	Email           string             `bson:"email"`
	AdultCount      int                `bson:"adultCount"`
	ChildCount      int                `bson:"childCount"`
	CheckIn         time.Time          `bson:"checkIn"`
	CheckOut        time.Time          `bson:"checkOut"`
	PaymentIntentID string             `bson:"paymentIntentId"`
	TotalCost       float64            `bson:"totalCost"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{Email: u.Email, Password: u.PasswordHash, FirstName: u.FirstName, LastName: u.LastName}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
	}
}

func toHotelDoc(h domain.Hotel) hotelDoc {
	d := hotelDoc{
		UserID:        h.UserID,
		Name:          h.Name,
		City:          h.City,
		Country:       h.Country,
		Description:   h.Description,
		Type:          h.Type,
		AdultCount:    h.AdultCount,
		ChildCount:    h.ChildCount,
		Facilities:    nonNil(h.Facilities),
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		ImageURLs:     nonNil(h.ImageURLs),
		LastUpdated:   h.LastUpdated,
		Bookings:      []bookingDoc{},
	}
	for _, b := range h.Bookings {
		d.Bookings = append(d.Bookings, toBookingDoc(b))
	}
	return d
}

func (d hotelDoc) toDomain() domain.Hotel {
	h := domain.Hotel{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Name:          d.Name,
		City:          d.City,
		Country:       d.Country,
		Description:   d.Description,
		Type:          d.Type,
		AdultCount:    d.AdultCount,
		ChildCount:    d.ChildCount,
		Facilities:    nonNil(d.Facilities),
		PricePerNight: d.PricePerNight,
		StarRating:    d.StarRating,
		ImageURLs:     nonNil(d.ImageURLs),
		LastUpdated:   d.LastUpdated.UTC(),
	}
	for _, b := range d.Bookings {
		h.Bookings = append(h.Bookings, b.toDomain())
	}
	return h
}

func toBookingDoc(b domain.Booking) bookingDoc {
	id, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		id = primitive.NewObjectID()
	}
	return bookingDoc{
		ID:              id,
		UserID:          b.UserID,
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		Email:           b.Email,
		AdultCount:      b.AdultCount,
		ChildCount:      b.ChildCount,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		PaymentIntentID: b.PaymentIntentID,
		TotalCost:       b.TotalCost,
		CreatedAt:       b.CreatedAt,
	}
}

func (d bookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		AdultCount:      d.AdultCount,
		ChildCount:      d.ChildCount,
		CheckIn:         d.CheckIn.UTC(),
		CheckOut:        d.CheckOut.UTC(),
		PaymentIntentID: d.PaymentIntentID,
		TotalCost:       d.TotalCost,
		CreatedAt:       d.CreatedAt.UTC(),
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
