package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const banFixture = `{
  "features": [
    {
      "geometry": {"coordinates": [5.36978, 43.296482]},
      "properties": {"postcode": "13001", "city": "Marseille", "score": 0.97}
    }
  ]
}`

func TestGeocodeSuccess(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(banFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.Geocode(context.Background(), Query{
		StreetNumber: "12",
		StreetName:   "rue de la République",
		City:         "Marseille",
	})
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}

	if gotQuery != "12 rue de la République Marseille" {
		t.Errorf("query = %q, want full address", gotQuery)
	}
	if result.Latitude != "43.296482" {
		t.Errorf("Latitude = %q, want %q", result.Latitude, "43.296482")
	}
	if result.Longitude != "5.36978" {
		t.Errorf("Longitude = %q, want %q", result.Longitude, "5.36978")
	}
	if result.PostalCode != "13001" {
		t.Errorf("PostalCode = %q, want %q", result.PostalCode, "13001")
	}
}

func TestGeocodeNoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Geocode(context.Background(), Query{StreetName: "nulle part", City: "Atlantide"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGeocodeEmptyQuery(t *testing.T) {
	client := NewClient("http://invalid.test", time.Second)
	_, err := client.Geocode(context.Background(), Query{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGeocodeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Geocode(context.Background(), Query{StreetName: "rue Paradis", City: "Marseille"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestGeocodeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)
	_, err := client.Geocode(context.Background(), Query{StreetName: "rue Paradis", City: "Marseille"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestGeocodeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Geocode(context.Background(), Query{StreetName: "rue Paradis", City: "Marseille"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
