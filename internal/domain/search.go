package domain

import "strings"

// HotelFilter is the validated set of search constraints. Zero values mean
// "no constraint on this dimension".
type HotelFilter struct {
	Destination string
	MinAdults   *int
	MinChildren *int
	Facilities  []string // hotel must have all of them
	Types       []string // hotel type must be one of them
	Stars       []int    // star rating must be one of them
	MaxPrice    *float64
}

// IsEmpty reports whether f constrains nothing.
func (f HotelFilter) IsEmpty() bool {
	return f.Destination == "" && f.MinAdults == nil && f.MinChildren == nil &&
		len(f.Facilities) == 0 && len(f.Types) == 0 && len(f.Stars) == 0 && f.MaxPrice == nil
}

// Matches evaluates f against h in memory, with the same semantics the
// storage-specific translations implement.
func (f HotelFilter) Matches(h Hotel) bool {
	if f.Destination != "" {
		d := strings.ToLower(f.Destination)
		if !strings.Contains(strings.ToLower(h.City), d) && !strings.Contains(strings.ToLower(h.Country), d) {
			return false
		}
	}
	if f.MinAdults != nil && h.AdultCount < *f.MinAdults {
		return false
	}
	if f.MinChildren != nil && h.ChildCount < *f.MinChildren {
		return false
	}
	if len(f.Facilities) > 0 {
		have := make(map[string]struct{}, len(h.Facilities))
		for _, fc := range h.Facilities {
			have[fc] = struct{}{}
		}
		for _, want := range f.Facilities {
			if _, ok := have[want]; !ok {
				return false
			}
		}
	}
	if len(f.Types) > 0 && !containsString(f.Types, h.Type) {
		return false
	}
	if len(f.Stars) > 0 {
		ok := false
		for _, s := range f.Stars {
			if s == h.StarRating {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MaxPrice != nil && h.PricePerNight > *f.MaxPrice {
		return false
	}
	return true
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

type SortOption string

const (
	SortNone              SortOption = ""
	SortStarRating        SortOption = "starRating"
	SortPricePerNightAsc  SortOption = "pricePerNightAsc"
	SortPricePerNightDesc SortOption = "pricePerNightDesc"
)

func (s SortOption) Valid() bool {
	switch s {
	case SortNone, SortStarRating, SortPricePerNightAsc, SortPricePerNightDesc:
		return true
	}
	return false
}

// PageSize is the fixed number of hotels per search page.
const PageSize = 5

type HotelSearch struct {
	Filter HotelFilter
	Sort   SortOption
	Skip   int
	Limit  int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type HotelSearchResponse struct {
	Data       []Hotel    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
