package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel_booking/internal/domain"
)

// BuildFilter translates a search filter into a hotels-collection query.
// Dimensions left unset in f contribute no clause.
func BuildFilter(f domain.HotelFilter) bson.M {
	q := bson.M{}
	if f.Destination != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Destination), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"city": re},
			bson.M{"country": re},
		}
	}
	if f.MinAdults != nil {
		q["adultCount"] = bson.M{"$gte": *f.MinAdults}
	}
	if f.MinChildren != nil {
		q["childCount"] = bson.M{"$gte": *f.MinChildren}
	}
	if len(f.Facilities) > 0 {
		q["facilities"] = bson.M{"$all": f.Facilities}
	}
	if len(f.Types) > 0 {
		q["type"] = bson.M{"$in": f.Types}
	}
	if len(f.Stars) > 0 {
		q["starRating"] = bson.M{"$in": f.Stars}
	}
	if f.MaxPrice != nil {
		q["pricePerNight"] = bson.M{"$lte": *f.MaxPrice}
	}
	return q
}

// SortFor returns the sort document for opt, or nil for natural order.
func SortFor(opt domain.SortOption) bson.D {
	switch opt {
	case domain.SortStarRating:
		return bson.D{{Key: "starRating", Value: -1}}
	case domain.SortPricePerNightAsc:
		return bson.D{{Key: "pricePerNight", Value: 1}}
	case domain.SortPricePerNightDesc:
		return bson.D{{Key: "pricePerNight", Value: -1}}
	}
	return nil
}
