package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func seed(t *testing.T, s *memory.Store, n int) []domain.Hotel {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []domain.Hotel
	for i := 0; i < n; i++ {
		h, err := s.CreateHotel(context.Background(), domain.Hotel{
			UserID: "owner", Name: "H", City: "London", Country: "UK",
			PricePerNight: float64(100 + i), StarRating: 1 + i%5,
			AdultCount: 2, LastUpdated: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		out = append(out, h)
	}
	return out
}

func TestSearchHotels_PagesPartitionMatches(t *testing.T) {
	s := memory.New()
	seed(t, s, 12)
	ctx := context.Background()

	seen := map[string]bool{}
	for skip := 0; skip < 15; skip += domain.PageSize {
		hs, total, err := s.SearchHotels(ctx, domain.HotelSearch{Sort: domain.SortPricePerNightAsc, Skip: skip, Limit: domain.PageSize})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if total != 12 {
			t.Fatalf("total = %d, want 12", total)
		}
		for _, h := range hs {
			if seen[h.ID] {
				t.Fatalf("hotel %s on two pages", h.ID)
			}
			seen[h.ID] = true
		}
	}
	if len(seen) != 12 {
		t.Fatalf("saw %d hotels, want 12", len(seen))
	}
}

func TestSearchHotels_SkipBeyondTotal(t *testing.T) {
	s := memory.New()
	seed(t, s, 3)
	hs, total, err := s.SearchHotels(context.Background(), domain.HotelSearch{Skip: 10, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(hs) != 0 || total != 3 {
		t.Fatalf("got %d hotels total %d", len(hs), total)
	}
}

func TestListHotels_MostRecentFirst(t *testing.T) {
	s := memory.New()
	seed(t, s, 3)
	hs, _ := s.ListHotels(context.Background())
	for i := 1; i < len(hs); i++ {
		if hs[i].LastUpdated.After(hs[i-1].LastUpdated) {
			t.Fatalf("not sorted by lastUpdated desc")
		}
	}
}

func TestAddBooking_DuplicatePaymentIntent(t *testing.T) {
	s := memory.New()
	hs := seed(t, s, 1)
	ctx := context.Background()
	b := domain.Booking{UserID: "u1", PaymentIntentID: "pi_1"}
	if err := s.AddBooking(ctx, hs[0].ID, b); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := s.AddBooking(ctx, hs[0].ID, b); !errors.Is(err, domain.ErrDuplicateBooking) {
		t.Fatalf("want ErrDuplicateBooking, got %v", err)
	}

	booked, _ := s.ListBookedHotels(ctx, "u1")
	if len(booked) != 1 || len(booked[0].Bookings) != 1 {
		t.Fatalf("unexpected booked hotels: %+v", booked)
	}
}

func TestUpdateHotel_KeepsBookingsAndChecksOwner(t *testing.T) {
	s := memory.New()
	hs := seed(t, s, 1)
	ctx := context.Background()
	_ = s.AddBooking(ctx, hs[0].ID, domain.Booking{UserID: "u1", PaymentIntentID: "pi_1"})

	h := hs[0]
	h.Name = "Renamed"
	h.Bookings = nil
	got, err := s.UpdateHotel(ctx, h)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Renamed" || len(got.Bookings) != 1 {
		t.Fatalf("unexpected update result: %+v", got)
	}

	h.UserID = "someone-else"
	if _, err := s.UpdateHotel(ctx, h); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign owner, got %v", err)
	}
}
