package mysql

import (
	"encoding/json"
	"strings"

	"hotel_booking/internal/domain"
)

// buildWhere translates a search filter into a WHERE clause over hotels h.
// It returns "" when f constrains nothing.
func buildWhere(f domain.HotelFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Destination != "" {
		like := "%" + escapeLike(strings.ToLower(f.Destination)) + "%"
		conds = append(conds, "(LOWER(h.city) LIKE ? OR LOWER(h.country) LIKE ?)")
		args = append(args, like, like)
	}
	if f.MinAdults != nil {
		conds = append(conds, "h.adult_count >= ?")
		args = append(args, *f.MinAdults)
	}
	if f.MinChildren != nil {
		conds = append(conds, "h.child_count >= ?")
		args = append(args, *f.MinChildren)
	}
	for _, fc := range f.Facilities {
		b, _ := json.Marshal(fc)
		conds = append(conds, "JSON_CONTAINS(h.facilities, ?)")
		args = append(args, string(b))
	}
	if len(f.Types) > 0 {
		conds = append(conds, "h.type IN ("+placeholders(len(f.Types))+")")
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if len(f.Stars) > 0 {
		conds = append(conds, "h.star_rating IN ("+placeholders(len(f.Stars))+")")
		for _, s := range f.Stars {
			args = append(args, s)
		}
	}
	if f.MaxPrice != nil {
		conds = append(conds, "h.price_per_night <= ?")
		args = append(args, *f.MaxPrice)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(opt domain.SortOption) string {
	switch opt {
	case domain.SortStarRating:
		return " ORDER BY h.star_rating DESC, h.id"
	case domain.SortPricePerNightAsc:
		return " ORDER BY h.price_per_night ASC, h.id"
	case domain.SortPricePerNightDesc:
		return " ORDER BY h.price_per_night DESC, h.id"
	}
	return " ORDER BY h.last_updated, h.id"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
