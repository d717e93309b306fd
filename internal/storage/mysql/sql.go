package mysql

const insertUserSQL = `
INSERT INTO users (id, email, password_hash, first_name, last_name)
VALUES (?, ?, ?, ?, ?)
`

const selectUserSQL = `
SELECT id, email, password_hash, first_name, last_name
FROM users
`

const insertHotelSQL = `
INSERT INTO hotels
  (id, user_id, name, city, country, description, type, adult_count, child_count,
   facilities, price_per_night, star_rating, image_urls, last_updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Bookings live in their own table and are never touched here.
const updateHotelSQL = `
UPDATE hotels SET
  name            = ?,
  city            = ?,
  country         = ?,
  description     = ?,
  type            = ?,
  adult_count     = ?,
  child_count     = ?,
  facilities      = ?,
  price_per_night = ?,
  star_rating     = ?,
  image_urls      = ?,
  last_updated    = ?
WHERE id = ? AND user_id = ?
`

const selectHotelSQL = `
SELECT h.id, h.user_id, h.name, h.city, h.country, h.description, h.type,
       h.adult_count, h.child_count, h.facilities, h.price_per_night,
       h.star_rating, h.image_urls, h.last_updated
FROM hotels h
`

const insertBookingSQL = `
INSERT INTO bookings
  (id, hotel_id, user_id, first_name, last_name, email, adult_count, child_count,
   check_in, check_out, payment_intent_id, total_cost, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Placeholders for the hotel ids are appended by the caller.
const selectBookingsPrefix = `
SELECT hotel_id, id, user_id, first_name, last_name, email, adult_count, child_count,
       check_in, check_out, payment_intent_id, total_cost, created_at
FROM bookings
WHERE hotel_id IN `

const hotelExistsSQL = `SELECT 1 FROM hotels WHERE id = ?`
