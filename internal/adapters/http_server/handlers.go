package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
)

type Sessions interface {
	TokenVerifier
	TTL() time.Duration
}

type Handlers struct {
	Accounts *app.AccountService
	Queries  *app.QueryService
	Bookings *app.BookingService
	MyHotels *app.MyHotelsService
	Sessions Sessions
	// Ready reports whether storage is reachable.
	Ready func(ctx context.Context) error
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.readyz)

	guard := RequireSession(h.Sessions)

	s.mux.Route("/api", func(api chi.Router) {
		api.Post("/users/register", h.register)
		api.With(guard).Get("/users/me", h.me)

		api.Post("/auth/login", h.login)
		api.With(guard).Get("/auth/validate-token", h.validateToken)
		api.Post("/auth/logout", h.logout)

		api.Get("/hotels/search", h.searchHotels)
		api.Get("/hotels", h.listHotels)
		api.Get("/hotels/{id}", h.getHotel)
		api.With(guard).Post("/hotels/{hotelId}/bookings/payment-intent", h.createPaymentIntent)
		api.With(guard).Post("/hotels/{hotelId}/bookings", h.commitBooking)

		api.Group(func(my chi.Router) {
			my.Use(guard)
			my.Post("/my-hotels", h.createMyHotel)
			my.Get("/my-hotels", h.listMyHotels)
			my.Get("/my-hotels/{id}", h.getMyHotel)
			my.Put("/my-hotels/{hotelId}", h.updateMyHotel)
			my.Get("/my-bookings", h.myBookings)
		})
	})
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "storage unreachable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
