package domain

import "testing"

func ip(i int) *int         { return &i }
func fp(f float64) *float64 { return &f }

func TestHotelFilter_Matches(t *testing.T) {
	h := Hotel{
		City: "New York", Country: "USA", Type: "Boutique",
		AdultCount: 2, ChildCount: 1, StarRating: 4, PricePerNight: 150,
		Facilities: []string{"Free WiFi", "Parking", "Spa"},
	}

	cases := []struct {
		name string
		f    HotelFilter
		want bool
	}{
		{"zero filter matches everything", HotelFilter{}, true},

		{"destination on city, any case", HotelFilter{Destination: "new YORK"}, true},
		{"destination on country only", HotelFilter{Destination: "usa"}, true},
		{"destination substring", HotelFilter{Destination: "york"}, true},
		{"destination elsewhere", HotelFilter{Destination: "Paris"}, false},

		{"all facilities present", HotelFilter{Facilities: []string{"Spa", "Free WiFi"}}, true},
		{"one facility missing", HotelFilter{Facilities: []string{"Spa", "Pool"}}, false},
		{"facilities are case sensitive", HotelFilter{Facilities: []string{"spa"}}, false},

		{"adults equal is inclusive", HotelFilter{MinAdults: ip(2)}, true},
		{"adults above capacity", HotelFilter{MinAdults: ip(3)}, false},
		{"children equal is inclusive", HotelFilter{MinChildren: ip(1)}, true},
		{"children above capacity", HotelFilter{MinChildren: ip(2)}, false},

		{"max price equal is inclusive", HotelFilter{MaxPrice: fp(150)}, true},
		{"max price below", HotelFilter{MaxPrice: fp(149.99)}, false},

		{"type in set", HotelFilter{Types: []string{"Budget", "Boutique"}}, true},
		{"type not in set", HotelFilter{Types: []string{"Budget"}}, false},
		{"stars in set", HotelFilter{Stars: []int{3, 4}}, true},
		{"stars not in set", HotelFilter{Stars: []int{5}}, false},

		{"every constraint satisfied", HotelFilter{
			Destination: "usa", MinAdults: ip(1), MinChildren: ip(0), Facilities: []string{"Parking"},
			Types: []string{"Boutique"}, Stars: []int{4}, MaxPrice: fp(200),
		}, true},
		{"one constraint failing sinks the rest", HotelFilter{
			Destination: "usa", MinAdults: ip(1), Facilities: []string{"Parking"}, MaxPrice: fp(100),
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Matches(h); got != tc.want {
				t.Fatalf("Matches(%+v) = %v, want %v", tc.f, got, tc.want)
			}
		})
	}
}

func TestHotelFilter_IsEmpty(t *testing.T) {
	if !(HotelFilter{}).IsEmpty() {
		t.Fatalf("zero filter should be empty")
	}
	if (HotelFilter{MinChildren: ip(0)}).IsEmpty() {
		t.Fatalf("an explicit zero bound is still a constraint")
	}
}
