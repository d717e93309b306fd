// Package mongo stores users and hotels in MongoDB. Bookings are embedded in
// their hotel document.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mdb "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_booking/internal/domain"
)

const (
	usersCollection  = "users"
	hotelsCollection = "hotels"
)

type Repo struct {
	db     *mdb.Database
	users  *mdb.Collection
	hotels *mdb.Collection
}

var (
	_ domain.UserRepository  = (*Repo)(nil)
	_ domain.HotelRepository = (*Repo)(nil)
)

// Connect dials uri and pings the server before returning.
func Connect(ctx context.Context, uri, database string) (*mdb.Client, *Repo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mdb.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, New(client.Database(database)), nil
}

func New(db *mdb.Database) *Repo {
	return &Repo{db: db, users: db.Collection(usersCollection), hotels: db.Collection(hotelsCollection)}
}

// EnsureIndexes creates the indexes the repository relies on. It is safe to
// call on every start.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mdb.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = r.hotels.Indexes().CreateMany(ctx, []mdb.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "lastUpdated", Value: -1}}},
		{Keys: bson.D{{Key: "bookings.userId", Value: 1}}},
		{
			Keys: bson.D{{Key: "bookings.paymentIntentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"bookings.paymentIntentId": bson.M{"$exists": true}},
			),
		},
	})
	return err
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// ---------- users ----------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.users.InsertOne(ctx, toUserDoc(u))
	if err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return u, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return r.findUser(ctx, bson.M{"_id": oid})
}

func (r *Repo) findUser(ctx context.Context, filter bson.M) (domain.User, error) {
	var d userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mdb.ErrNoDocuments) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return d.toDomain(), nil
}

// ---------- hotels ----------

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.Bookings = nil
	res, err := r.hotels.InsertOne(ctx, toHotelDoc(h))
	if err != nil {
		return domain.Hotel{}, err
	}
	h.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return h, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(h.ID)
	if err != nil {
		return domain.Hotel{}, domain.ErrNotFound
	}
	d := toHotelDoc(h)
	set := bson.M{
		"name":          d.Name,
		"city":          d.City,
		"country":       d.Country,
		"description":   d.Description,
		"type":          d.Type,
		"adultCount":    d.AdultCount,
		"childCount":    d.ChildCount,
		"facilities":    d.Facilities,
		"pricePerNight": d.PricePerNight,
		"starRating":    d.StarRating,
		"imageUrls":     d.ImageURLs,
		"lastUpdated":   d.LastUpdated,
	}
	var out hotelDoc
	err = r.hotels.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": h.UserID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mdb.ErrNoDocuments) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	return out.toDomain(), nil
}

// AddBooking pushes b only if no booking on the hotel carries the same
// payment intent; the partial unique index covers other hotels.
func (r *Repo) AddBooking(ctx context.Context, hotelID string, b domain.Booking) error {
	oid, err := primitive.ObjectIDFromHex(hotelID)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.hotels.UpdateOne(ctx,
		bson.M{"_id": oid, "bookings.paymentIntentId": bson.M{"$ne": b.PaymentIntentID}},
		bson.M{"$push": bson.M{"bookings": toBookingDoc(b)}},
	)
	if err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateBooking
		}
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.hotels.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrDuplicateBooking
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return r.findHotel(ctx, bson.M{"_id": oid})
}

func (r *Repo) GetOwnedHotel(ctx context.Context, ownerID, id string) (domain.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return r.findHotel(ctx, bson.M{"_id": oid, "userId": ownerID})
}

func (r *Repo) findHotel(ctx context.Context, filter bson.M) (domain.Hotel, error) {
	var d hotelDoc
	if err := r.hotels.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mdb.ErrNoDocuments) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	return d.toDomain(), nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.findHotels(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}}))
}

func (r *Repo) ListOwnedHotels(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return r.findHotels(ctx, bson.M{"userId": ownerID}, options.Find())
}

func (r *Repo) ListBookedHotels(ctx context.Context, userID string) ([]domain.Hotel, error) {
	return r.findHotels(ctx, bson.M{"bookings.userId": userID}, options.Find())
}

func (r *Repo) SearchHotels(ctx context.Context, q domain.HotelSearch) ([]domain.Hotel, int64, error) {
	filter := BuildFilter(q.Filter)

	opts := options.Find().SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if s := SortFor(q.Sort); s != nil {
		opts.SetSort(s)
	}

	hs, err := r.findHotels(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.hotels.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return hs, total, nil
}

func (r *Repo) findHotels(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Hotel, error) {
	cur, err := r.hotels.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Hotel{}
	for cur.Next(ctx) {
		var d hotelDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
