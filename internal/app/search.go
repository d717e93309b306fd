package app

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"hotel_booking/internal/domain"
)

// SearchRequest is a parsed and validated search.
type SearchRequest struct {
	Search domain.HotelSearch
	Page   int
}

// ParseSearchQuery turns raw query parameters into a typed search. Absent or
// empty parameters add no constraint; malformed numeric values are rejected.
func ParseSearchQuery(q url.Values) (SearchRequest, error) {
	ve := &domain.ValidationError{}
	var f domain.HotelFilter

	f.Destination = strings.TrimSpace(q.Get("destination"))
	f.MinAdults = parseCount(q, "adultCount", ve)
	f.MinChildren = parseCount(q, "childCount", ve)
	f.Facilities = multi(q, "facilities")
	f.Types = multi(q, "types")

	for _, s := range multi(q, "stars") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			ve.Add("stars", "must be whole numbers between 1 and 5")
			break
		}
		f.Stars = append(f.Stars, n)
	}

	if s := strings.TrimSpace(q.Get("maxPrice")); s != "" {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			ve.Add("maxPrice", "must be a non-negative number")
		} else {
			f.MaxPrice = &p
		}
	}

	sort := domain.SortOption(strings.TrimSpace(q.Get("sortOption")))
	if !sort.Valid() {
		ve.Add("sortOption", "must be one of starRating, pricePerNightAsc, pricePerNightDesc")
	}

	if err := ve.OrNil(); err != nil {
		return SearchRequest{}, err
	}

	page := ParsePage(q.Get("page"))
	return SearchRequest{
		Search: domain.HotelSearch{
			Filter: f,
			Sort:   sort,
			Skip:   Skip(page),
			Limit:  domain.PageSize,
		},
		Page: page,
	}, nil
}

func parseCount(q url.Values, key string, ve *domain.ValidationError) *int {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		ve.Add(key, "must be a non-negative whole number")
		return nil
	}
	return &n
}

// multi collects a repeatable parameter, accepting both key and key[].
func multi(q url.Values, key string) []string {
	var out []string
	for _, k := range []string{key, key + "[]"} {
		for _, v := range q[k] {
			if t := strings.TrimSpace(v); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// ParsePage returns a 1-based page number. Absent, non-numeric, zero and
// negative values all resolve to page 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip is the record offset of page.
func Skip(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * domain.PageSize
}

// Paginate builds the pagination metadata for total matching records.
func Paginate(total int64, page int) domain.Pagination {
	if page < 1 {
		page = 1
	}
	return domain.Pagination{
		Total: total,
		Page:  page,
		Pages: int((total + domain.PageSize - 1) / domain.PageSize),
	}
}
