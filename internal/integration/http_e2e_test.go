//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_booking/internal/adapters/cloudinary"
	"hotel_booking/internal/adapters/events"
	httpserver "hotel_booking/internal/adapters/http_server"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/auth"
	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotel_booking"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotel_booking?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

// fakeStripe keeps payment intents in memory. Intents succeed as soon as they
// are created, standing in for the browser confirming the card.
type fakeStripe struct {
	mu      sync.Mutex
	intents map[string]map[string]any
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		_ = r.ParseForm()
		id := fmt.Sprintf("pi_e2e_%d", len(f.intents)+1)
		meta := map[string]string{}
		for k, v := range r.PostForm {
			if strings.HasPrefix(k, "metadata[") {
				meta[strings.TrimSuffix(strings.TrimPrefix(k, "metadata["), "]")] = v[0]
			}
		}
		pi := map[string]any{
			"id": id, "client_secret": id + "_secret_x", "amount": json.Number(r.PostForm.Get("amount")),
			"currency": r.PostForm.Get("currency"), "status": "succeeded", "metadata": meta,
		}
		f.intents[id] = pi
		_ = json.NewEncoder(w).Encode(pi)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payment_intents/"):
		pi, ok := f.intents[strings.TrimPrefix(r.URL.Path, "/v1/payment_intents/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"resource_missing"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(pi)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func fakeCloudinary(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	n := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("signature") == "" || !strings.HasPrefix(r.FormValue("file"), "data:") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		n++
		id := n
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"secure_url":"https://res.test/img%d.jpg"}`, id)
	}))
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, base string) *client {
	jar, _ := cookiejar.New(nil)
	return &client{t: t, base: base, http: &http.Client{Jar: jar}}
}

func (c *client) json(method, path string, in, out any) int {
	c.t.Helper()
	var body io.Reader
	if in != nil {
		b, _ := json.Marshal(in)
		body = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, c.base+path, body)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *client) send(req *http.Request, out any) int {
	c.t.Helper()
	res, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	if out != nil {
		b, _ := io.ReadAll(res.Body)
		if err := json.Unmarshal(b, out); err != nil {
			c.t.Fatalf("decode %s: %v (%s)", req.URL.Path, err, b)
		}
	}
	return res.StatusCode
}

// ---------- the test ----------

func TestHTTP_EndToEnd_ListSearchBook(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	stripeSrv := httptest.NewServer(&fakeStripe{intents: map[string]map[string]any{}})
	t.Cleanup(stripeSrv.Close)
	cloudSrv := fakeCloudinary(t)
	t.Cleanup(cloudSrv.Close)

	payments, err := stripe.New(stripeSrv.URL, "sk_test_e2e", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	uploader, err := cloudinary.New(cloudSrv.URL, "demo", "key", "secret", 0)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := auth.NewTokenManager("e2e-secret", "")
	if err != nil {
		t.Fatal(err)
	}

	q := app.NewQueryService(repo, cache, time.Minute)
	srv := httpserver.New(httpserver.Options{AllowedOrigins: []string{"http://localhost:5173"}})
	srv.MountHandlers(&httpserver.Handlers{
		Accounts: app.NewAccountService(repo, auth.NewHasherWithCost(4), tokens),
		Queries:  q,
		Bookings: app.NewBookingService(repo, payments, events.Noop{}, q),
		MyHotels: app.NewMyHotelsService(repo, uploader, events.Noop{}, q),
		Sessions: tokens,
		Ready:    repo.Ping,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	// owner lists a hotel with two images
	owner := newClient(t, ts.URL)
	reg := map[string]string{"firstName": "O", "lastName": "W", "email": "owner@example.com", "password": "secret1"}
	if code := owner.json("POST", "/api/users/register", reg, nil); code != 200 {
		t.Fatalf("register owner: %d", code)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "Harbour Lights", "city": "Brighton", "country": "UK", "description": "Seafront",
		"type": "Beach Resort", "adultCount": "2", "childCount": "0", "starRating": "4", "pricePerNight": "100",
	} {
		_ = mw.WriteField(k, v)
	}
	_ = mw.WriteField("facilities", "Free WiFi")
	for i := 0; i < 2; i++ {
		fw, _ := mw.CreateFormFile("imageFiles", fmt.Sprintf("room%d.jpg", i))
		_, _ = fw.Write([]byte("jpeg"))
	}
	_ = mw.Close()
	req, _ := http.NewRequest("POST", ts.URL+"/api/my-hotels", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var hotel domain.Hotel
	if code := owner.send(req, &hotel); code != 201 {
		t.Fatalf("create hotel: %d", code)
	}
	if len(hotel.ImageURLs) != 2 || hotel.ImageURLs[0] == hotel.ImageURLs[1] {
		t.Fatalf("unexpected images: %v", hotel.ImageURLs)
	}

	// guest finds it through search
	guest := newClient(t, ts.URL)
	reg["email"] = "guest@example.com"
	if code := guest.json("POST", "/api/users/register", reg, nil); code != 200 {
		t.Fatalf("register guest: %d", code)
	}
	var sr domain.HotelSearchResponse
	if code := guest.json("GET", "/api/hotels/search?destination=brighton&facilities=Free%20WiFi&sortOption=pricePerNightAsc", nil, &sr); code != 200 {
		t.Fatalf("search: %d", code)
	}
	if sr.Pagination.Total != 1 || sr.Data[0].ID != hotel.ID {
		t.Fatalf("unexpected search: %+v", sr)
	}

	// pay and book
	var pi app.PaymentIntentResult
	if code := guest.json("POST", "/api/hotels/"+hotel.ID+"/bookings/payment-intent", map[string]int{"numberOfNights": 3}, &pi); code != 200 {
		t.Fatalf("payment intent: %d", code)
	}
	if pi.TotalCost != 300 {
		t.Fatalf("total %v", pi.TotalCost)
	}
	booking := map[string]any{
		"firstName": "G", "lastName": "U", "email": "guest@example.com", "adultCount": 2, "childCount": 0,
		"checkIn": "2026-06-01T00:00:00Z", "checkOut": "2026-06-04T00:00:00Z",
		"paymentIntentId": pi.PaymentIntentID, "totalCost": 300,
	}
	if code := guest.json("POST", "/api/hotels/"+hotel.ID+"/bookings", booking, nil); code != 200 {
		t.Fatalf("commit: %d", code)
	}
	if code := guest.json("POST", "/api/hotels/"+hotel.ID+"/bookings", booking, nil); code != 400 {
		t.Fatalf("duplicate commit: %d", code)
	}
	booking["paymentIntentId"] = "pi_unknown"
	if code := guest.json("POST", "/api/hotels/"+hotel.ID+"/bookings", booking, nil); code != 400 {
		t.Fatalf("unknown intent: %d", code)
	}

	var mine []domain.Hotel
	if code := guest.json("GET", "/api/my-bookings", nil, &mine); code != 200 {
		t.Fatalf("my-bookings: %d", code)
	}
	if len(mine) != 1 || len(mine[0].Bookings) != 1 || mine[0].Bookings[0].TotalCost != 300 {
		t.Fatalf("unexpected bookings: %+v", mine)
	}

	// the owner sees nothing under my-bookings and the public view hides guests
	if code := owner.json("GET", "/api/my-bookings", nil, &mine); code != 200 || len(mine) != 0 {
		t.Fatalf("owner bookings: %d %+v", code, mine)
	}
	var public domain.Hotel
	if code := guest.json("GET", "/api/hotels/"+hotel.ID, nil, &public); code != 200 || len(public.Bookings) != 0 {
		t.Fatalf("public hotel: %d %+v", code, public)
	}
}
