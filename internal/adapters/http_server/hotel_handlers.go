package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// booking endpoints report a missing hotel as a bad request
var hotelNotFound = notFound{status: http.StatusBadRequest, detail: "Hotel not found"}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Queries.Search(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	writeCachedJSON(w, r, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Queries.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	writeCachedJSON(w, r, hs)
}

// getHotel answers an unknown id with 200 and a JSON null.
func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Queries.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	writeCachedJSON(w, r, hotel)
}

type paymentIntentRequest struct {
	NumberOfNights int `json:"numberOfNights"`
}

func (h *Handlers) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var in paymentIntentRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, hotelNotFound)
		return
	}
	res, err := h.Bookings.CreatePaymentIntent(r.Context(), chi.URLParam(r, "hotelId"), UserIDFrom(r.Context()), in.NumberOfNights)
	if err != nil {
		writeError(w, r, err, hotelNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) commitBooking(w http.ResponseWriter, r *http.Request) {
	var in app.BookingRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, hotelNotFound)
		return
	}
	if _, err := h.Bookings.CommitBooking(r.Context(), chi.URLParam(r, "hotelId"), UserIDFrom(r.Context()), in); err != nil {
		writeError(w, r, err, hotelNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking confirmed"})
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Bookings.MyBookings(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err, defaultNotFound)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}
