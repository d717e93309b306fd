package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

// searchTTL caps how long a search page may be served from cache.
const searchTTL = 60 * time.Second

// Search keys embed the current generation; any hotel write moves it on and
// orphans every cached page.
const (
	searchGenKey = "search:gen"
	searchGenTTL = 24 * time.Hour
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id string) string { return "hotel:" + id }

// GetHotel returns the public view of a hotel (no bookings).
func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Bookings = nil
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListHotels returns every hotel, most recently updated first.
func (s *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	hs, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	return publicHotels(hs), nil
}

func (s *QueryService) Search(ctx context.Context, q url.Values) (domain.HotelSearchResponse, error) {
	req, err := ParseSearchQuery(q)
	if err != nil {
		return domain.HotelSearchResponse{}, err
	}

	var key string
	if s.cache != nil {
		key = searchKey(s.searchGeneration(ctx), req)
	}
	var out domain.HotelSearchResponse
	if s.cache != nil && key != "" {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	hs, total, err := s.repo.SearchHotels(ctx, req.Search)
	if err != nil {
		return domain.HotelSearchResponse{}, err
	}
	out = domain.HotelSearchResponse{
		Data:       publicHotels(hs),
		Pagination: Paginate(total, req.Page),
	}

	if s.cache != nil && key != "" {
		ttl := s.cacheTTL
		if ttl > searchTTL {
			ttl = searchTTL
		}
		_ = s.cache.Set(ctx, key, out, int(ttl.Seconds()))
	}
	return out, nil
}

// InvalidateHotel drops the cached view of a hotel and every cached search page.
func (s *QueryService) InvalidateHotel(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
		s.InvalidateSearches(ctx)
	}
}

// InvalidateSearches retires every cached search page.
func (s *QueryService) InvalidateSearches(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Set(ctx, searchGenKey, uuid.NewString(), int(searchGenTTL.Seconds()))
	}
}

func (s *QueryService) searchGeneration(ctx context.Context) string {
	var gen string
	if ok, _ := s.cache.Get(ctx, searchGenKey, &gen); ok && gen != "" {
		return gen
	}
	return "0"
}

func searchKey(gen string, req SearchRequest) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(b)
	return fmt.Sprintf("search:%s:%s", gen, hex.EncodeToString(sum[:]))
}

// publicHotels strips bookings, which carry guest details, from listings.
func publicHotels(in []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(in))
	for i, h := range in {
		h.Bookings = nil
		out[i] = h
	}
	return out
}
