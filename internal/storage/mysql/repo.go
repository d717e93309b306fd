// Package mysql is the relational store: hotels and users in their own
// tables, bookings keyed by hotel with a unique payment intent.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

const errDupEntry = 1062

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

func jsonList(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

type Repo struct{ db *sql.DB }

var (
	_ domain.UserRepository  = (*Repo)(nil)
	_ domain.HotelRepository = (*Repo)(nil)
)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// ---------- users ----------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName)
	if err != nil {
		if isDuplicate(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, "WHERE email = ?", email)
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, "WHERE id = ?", id)
}

func (r *Repo) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, selectUserSQL+where, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// ---------- hotels ----------

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.ID = uuid.NewString()
	h.Bookings = nil
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID, h.UserID, h.Name, h.City, h.Country, h.Description, h.Type,
		h.AdultCount, h.ChildCount, jsonList(h.Facilities), h.PricePerNight,
		h.StarRating, jsonList(h.ImageURLs), h.LastUpdated.UTC(),
	)
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

// UpdateHotel does not trust RowsAffected: MySQL reports 0 for an update
// that changes nothing, so the row is read back instead.
func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.City, h.Country, h.Description, h.Type,
		h.AdultCount, h.ChildCount, jsonList(h.Facilities), h.PricePerNight,
		h.StarRating, jsonList(h.ImageURLs), h.LastUpdated.UTC(),
		h.ID, h.UserID,
	)
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetOwnedHotel(ctx, h.UserID, h.ID)
}

func (r *Repo) AddBooking(ctx context.Context, hotelID string, b domain.Booking) error {
	var one int
	if err := r.db.QueryRowContext(ctx, hotelExistsSQL, hotelID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID, hotelID, b.UserID, b.FirstName, b.LastName, b.Email,
		b.AdultCount, b.ChildCount, b.CheckIn.UTC(), b.CheckOut.UTC(),
		b.PaymentIntentID, b.TotalCost, b.CreatedAt.UTC(),
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	return r.getHotel(ctx, " WHERE h.id = ?", id)
}

func (r *Repo) GetOwnedHotel(ctx context.Context, ownerID, id string) (domain.Hotel, error) {
	return r.getHotel(ctx, " WHERE h.id = ? AND h.user_id = ?", id, ownerID)
}

func (r *Repo) getHotel(ctx context.Context, where string, args ...any) (domain.Hotel, error) {
	hs, err := r.queryHotels(ctx, selectHotelSQL+where, args...)
	if err != nil {
		return domain.Hotel{}, err
	}
	if len(hs) == 0 {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return hs[0], nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, selectHotelSQL+" ORDER BY h.last_updated DESC, h.id")
}

func (r *Repo) ListOwnedHotels(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, selectHotelSQL+" WHERE h.user_id = ? ORDER BY h.last_updated, h.id", ownerID)
}

func (r *Repo) ListBookedHotels(ctx context.Context, userID string) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, selectHotelSQL+
		" WHERE h.id IN (SELECT b.hotel_id FROM bookings b WHERE b.user_id = ?) ORDER BY h.last_updated, h.id", userID)
}

func (r *Repo) SearchHotels(ctx context.Context, q domain.HotelSearch) ([]domain.Hotel, int64, error) {
	where, args := buildWhere(q.Filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hotels h"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	query := selectHotelSQL + where + orderBy(q.Sort) + " LIMIT ? OFFSET ?"
	hs, err := r.queryHotels(ctx, query, append(args, limit, q.Skip)...)
	if err != nil {
		return nil, 0, err
	}
	return hs, total, nil
}

// queryHotels scans hotel rows and attaches their bookings.
func (r *Repo) queryHotels(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var h domain.Hotel
		var facilities, images []byte
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.Name, &h.City, &h.Country, &h.Description, &h.Type,
			&h.AdultCount, &h.ChildCount, &facilities, &h.PricePerNight,
			&h.StarRating, &images, &h.LastUpdated,
		); err != nil {
			return nil, err
		}
		if h.Facilities, err = decodeStrings("facilities", facilities); err != nil {
			return nil, fmt.Errorf("hotel %s: %w", h.ID, err)
		}
		if h.ImageURLs, err = decodeStrings("image_urls", images); err != nil {
			return nil, fmt.Errorf("hotel %s: %w", h.ID, err)
		}
		h.LastUpdated = h.LastUpdated.UTC()
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachBookings(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeStrings reads a JSON array column; NULL and empty read as no values.
func decodeStrings(col string, b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s column: %w", col, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (r *Repo) attachBookings(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	idx := make(map[string]int, len(hs))
	args := make([]any, 0, len(hs))
	for i, h := range hs {
		idx[h.ID] = i
		args = append(args, h.ID)
	}
	query := fmt.Sprintf("%s(%s) ORDER BY created_at, id", strings.TrimRight(selectBookingsPrefix, " "), placeholders(len(hs)))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var hotelID string
		var b domain.Booking
		if err := rows.Scan(
			&hotelID, &b.ID, &b.UserID, &b.FirstName, &b.LastName, &b.Email,
			&b.AdultCount, &b.ChildCount, &b.CheckIn, &b.CheckOut,
			&b.PaymentIntentID, &b.TotalCost, &b.CreatedAt,
		); err != nil {
			return err
		}
		b.CheckIn, b.CheckOut, b.CreatedAt = b.CheckIn.UTC(), b.CheckOut.UTC(), b.CreatedAt.UTC()
		if i, ok := idx[hotelID]; ok {
			hs[i].Bookings = append(hs[i].Bookings, b)
		}
	}
	return rows.Err()
}
