// Package memory is an in-process store used for local runs and HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	hotels []domain.Hotel // insertion order
}

func New() *Store {
	return &Store{users: map[string]domain.User{}}
}

var (
	_ domain.UserRepository  = (*Store)(nil)
	_ domain.HotelRepository = (*Store)(nil)
)

func (s *Store) Ping(ctx context.Context) error { return nil }

// ---------- users ----------

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// ---------- hotels ----------

func (s *Store) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = uuid.NewString()
	h.Bookings = nil
	s.hotels = append(s.hotels, clone(h))
	return clone(h), nil
}

func (s *Store) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(h.ID)
	if i < 0 || s.hotels[i].UserID != h.UserID {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.Bookings = s.hotels[i].Bookings
	s.hotels[i] = clone(h)
	return clone(h), nil
}

func (s *Store) AddBooking(ctx context.Context, hotelID string, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(hotelID)
	if i < 0 {
		return domain.ErrNotFound
	}
	for _, h := range s.hotels {
		for _, x := range h.Bookings {
			if x.PaymentIntentID == b.PaymentIntentID {
				return domain.ErrDuplicateBooking
			}
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.hotels[i].Bookings = append(s.hotels[i].Bookings, b)
	return nil
}

func (s *Store) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return clone(s.hotels[i]), nil
}

func (s *Store) GetOwnedHotel(ctx context.Context, ownerID, id string) (domain.Hotel, error) {
	h, err := s.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if h.UserID != ownerID {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (s *Store) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	out := s.collect(func(domain.Hotel) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (s *Store) ListOwnedHotels(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return s.collect(func(h domain.Hotel) bool { return h.UserID == ownerID }), nil
}

func (s *Store) ListBookedHotels(ctx context.Context, userID string) ([]domain.Hotel, error) {
	return s.collect(func(h domain.Hotel) bool { return h.HasBookingFor(userID) }), nil
}

func (s *Store) SearchHotels(ctx context.Context, q domain.HotelSearch) ([]domain.Hotel, int64, error) {
	matched := s.collect(q.Filter.Matches)
	sortHotels(matched, q.Sort)

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return []domain.Hotel{}, total, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Skip+q.Limit < end {
		end = q.Skip + q.Limit
	}
	return matched[q.Skip:end], total, nil
}

func sortHotels(hs []domain.Hotel, opt domain.SortOption) {
	var less func(a, b domain.Hotel) bool
	switch opt {
	case domain.SortStarRating:
		less = func(a, b domain.Hotel) bool { return a.StarRating > b.StarRating }
	case domain.SortPricePerNightAsc:
		less = func(a, b domain.Hotel) bool { return a.PricePerNight < b.PricePerNight }
	case domain.SortPricePerNightDesc:
		less = func(a, b domain.Hotel) bool { return a.PricePerNight > b.PricePerNight }
	default:
		return
	}
	sort.SliceStable(hs, func(i, j int) bool { return less(hs[i], hs[j]) })
}

func (s *Store) collect(keep func(domain.Hotel) bool) []domain.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Hotel{}
	for _, h := range s.hotels {
		if keep(h) {
			out = append(out, clone(h))
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, h := range s.hotels {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// clone detaches slices so callers cannot mutate stored state.
func clone(h domain.Hotel) domain.Hotel {
	h.Facilities = append([]string(nil), h.Facilities...)
	h.ImageURLs = append([]string(nil), h.ImageURLs...)
	if h.Bookings != nil {
		h.Bookings = append([]domain.Booking(nil), h.Bookings...)
	}
	return h
}
