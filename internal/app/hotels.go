package app

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

// uploadParallelism bounds concurrent image-host uploads for one request.
const uploadParallelism = 3

// HotelInput is the owner-editable part of a hotel listing.
type HotelInput struct {
	Name          string   `json:"name" validate:"required"`
	City          string   `json:"city" validate:"required"`
	Country       string   `json:"country" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	AdultCount    int      `json:"adultCount" validate:"gte=1"`
	ChildCount    int      `json:"childCount" validate:"gte=0"`
	Facilities    []string `json:"facilities" validate:"min=1"`
	PricePerNight float64  `json:"pricePerNight" validate:"gt=0"`
	StarRating    int      `json:"starRating" validate:"min=1,max=5"`
	// ImageURLs are already-hosted images kept on update.
	ImageURLs []string `json:"imageUrls"`
}

// ParseHotelForm reads a multipart/urlencoded hotel form. Numeric fields that
// do not parse are reported per field.
func ParseHotelForm(v url.Values) (HotelInput, error) {
	ve := &domain.ValidationError{}
	in := HotelInput{
		Name:        strings.TrimSpace(v.Get("name")),
		City:        strings.TrimSpace(v.Get("city")),
		Country:     strings.TrimSpace(v.Get("country")),
		Description: strings.TrimSpace(v.Get("description")),
		Type:        strings.TrimSpace(v.Get("type")),
		Facilities:  multi(v, "facilities"),
		ImageURLs:   multi(v, "imageUrls"),
	}
	in.AdultCount = formInt(v, "adultCount", ve)
	in.ChildCount = formInt(v, "childCount", ve)
	in.StarRating = formInt(v, "starRating", ve)

	if s := strings.TrimSpace(v.Get("pricePerNight")); s != "" {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			ve.Add("pricePerNight", "must be a number")
		} else {
			in.PricePerNight = p
		}
	} else {
		ve.Add("pricePerNight", "is required")
	}

	if err := ve.OrNil(); err != nil {
		return HotelInput{}, err
	}
	return in, nil
}

func formInt(v url.Values, key string, ve *domain.ValidationError) int {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		ve.Add(key, "must be a whole number")
		return 0
	}
	return n
}

type MyHotelsService struct {
	repo     domain.HotelRepository
	uploader domain.ImageUploader
	events   domain.EventPublisher
	queries  *QueryService
	now      func() time.Time
}

func NewMyHotelsService(r domain.HotelRepository, u domain.ImageUploader, e domain.EventPublisher, q *QueryService) *MyHotelsService {
	return &MyHotelsService{repo: r, uploader: u, events: e, queries: q, now: time.Now}
}

func (s *MyHotelsService) Create(ctx context.Context, ownerID string, in HotelInput, files []domain.Image) (domain.Hotel, error) {
	ve := validateStruct(in)
	ve = merge(ve, checkImages(files, 0))
	if err := ve.OrNil(); err != nil {
		return domain.Hotel{}, err
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return domain.Hotel{}, err
	}

	h := applyInput(domain.Hotel{UserID: ownerID}, in)
	h.ImageURLs = urls
	h.LastUpdated = s.now().UTC()

	created, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.queries != nil {
		s.queries.InvalidateSearches(ctx)
	}
	publish(ctx, s.events, domain.Event{Type: domain.EventHotelCreated, HotelID: created.ID, UserID: ownerID})
	return created, nil
}

// Import stores a listing whose images are already hosted, as the seeder does.
func (s *MyHotelsService) Import(ctx context.Context, ownerID string, in HotelInput) (domain.Hotel, error) {
	ve := validateStruct(in)
	ve = merge(ve, checkImages(nil, len(in.ImageURLs)))
	if err := ve.OrNil(); err != nil {
		return domain.Hotel{}, err
	}
	h := applyInput(domain.Hotel{UserID: ownerID}, in)
	h.ImageURLs = append([]string{}, in.ImageURLs...)
	h.LastUpdated = s.now().UTC()

	created, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.queries != nil {
		s.queries.InvalidateSearches(ctx)
	}
	publish(ctx, s.events, domain.Event{Type: domain.EventHotelCreated, HotelID: created.ID, UserID: ownerID})
	return created, nil
}

// Update replaces the listing fields of an owned hotel. Newly uploaded images
// come first, followed by the kept in.ImageURLs. Bookings are untouched.
func (s *MyHotelsService) Update(ctx context.Context, ownerID, hotelID string, in HotelInput, files []domain.Image) (domain.Hotel, error) {
	ve := validateStruct(in)
	ve = merge(ve, checkImages(files, len(in.ImageURLs)))
	if err := ve.OrNil(); err != nil {
		return domain.Hotel{}, err
	}

	current, err := s.repo.GetOwnedHotel(ctx, ownerID, hotelID)
	if err != nil {
		return domain.Hotel{}, err
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return domain.Hotel{}, err
	}

	h := applyInput(current, in)
	h.ImageURLs = append(urls, in.ImageURLs...)
	h.LastUpdated = s.now().UTC()

	updated, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.queries != nil {
		s.queries.InvalidateHotel(ctx, hotelID)
	}
	publish(ctx, s.events, domain.Event{Type: domain.EventHotelUpdated, HotelID: hotelID, UserID: ownerID})
	return updated, nil
}

func (s *MyHotelsService) List(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return s.repo.ListOwnedHotels(ctx, ownerID)
}

func (s *MyHotelsService) Get(ctx context.Context, ownerID, hotelID string) (domain.Hotel, error) {
	return s.repo.GetOwnedHotel(ctx, ownerID, hotelID)
}

func applyInput(h domain.Hotel, in HotelInput) domain.Hotel {
	h.Name = in.Name
	h.City = in.City
	h.Country = in.Country
	h.Description = in.Description
	h.Type = in.Type
	h.AdultCount = in.AdultCount
	h.ChildCount = in.ChildCount
	h.Facilities = in.Facilities
	h.PricePerNight = in.PricePerNight
	h.StarRating = in.StarRating
	return h
}

func checkImages(files []domain.Image, kept int) *domain.ValidationError {
	ve := &domain.ValidationError{}
	if len(files)+kept > domain.MaxHotelImages {
		ve.Add("imageFiles", fmt.Sprintf("a hotel can have at most %d images", domain.MaxHotelImages))
	}
	for _, f := range files {
		if len(f.Data) > domain.MaxImageBytes {
			ve.Add("imageFiles", fmt.Sprintf("%s exceeds %d MB", f.Filename, domain.MaxImageBytes>>20))
		}
	}
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

// uploadAll sends files to the image host and returns their URLs in input order.
func (s *MyHotelsService) uploadAll(ctx context.Context, files []domain.Image) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadParallelism)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			u, err := s.uploader.Upload(gctx, f)
			if err != nil {
				return domain.UpstreamError("image host", err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
