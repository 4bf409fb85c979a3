package weather

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client(), "test-key")
	f.baseURL = srv.URL
	return f, srv
}

func TestFetcher_Fetch_NormalizesResponse(t *testing.T) {
	var gotQuery url.Values
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":283.15,"humidity":60},"weather":[{"main":"Clouds"}]}`))
	})

	collectedAt := time.Date(2026, 8, 23, 12, 30, 45, 0, time.UTC)
	f.now = func() time.Time { return collectedAt }

	rec, err := f.Fetch(context.Background(), "London")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotQuery.Get("q") != "London" {
		t.Fatalf("q=%q want=%q", gotQuery.Get("q"), "London")
	}
	if gotQuery.Get("appid") != "test-key" {
		t.Fatalf("appid=%q want=%q", gotQuery.Get("appid"), "test-key")
	}

	if rec.City != "London" {
		t.Fatalf("city=%q", rec.City)
	}
	if math.Abs(rec.Temperature-50.0) > 0.01 {
		t.Fatalf("temperature=%v want=50.0", rec.Temperature)
	}
	if rec.Humidity != 60 {
		t.Fatalf("humidity=%d want=60", rec.Humidity)
	}
	if rec.Condition != "Clouds" {
		t.Fatalf("condition=%q want=%q", rec.Condition, "Clouds")
	}
	if rec.Timestamp != "2026-08-23T12-30-45Z" {
		t.Fatalf("timestamp=%q want=%q", rec.Timestamp, "2026-08-23T12-30-45Z")
	}
}

func TestFetcher_Fetch_NotFoundStatus(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	})

	_, err := f.Fetch(context.Background(), "InvalidCity123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.City != "InvalidCity123" {
		t.Fatalf("city=%q", fe.City)
	}
}

func TestFetcher_Fetch_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no temperature", `{"main":{"humidity":60},"weather":[{"main":"Clear"}]}`},
		{"no humidity", `{"main":{"temp":283.15},"weather":[{"main":"Clear"}]}`},
		{"no condition", `{"main":{"temp":283.15,"humidity":60},"weather":[]}`},
		{"blank condition", `{"main":{"temp":283.15,"humidity":60},"weather":[{"main":""}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := f.Fetch(context.Background(), "London")
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
		})
	}
}

func TestFetcher_Fetch_HumidityOutOfRange(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":283.15,"humidity":120},"weather":[{"main":"Clear"}]}`))
	})

	if _, err := f.Fetch(context.Background(), "London"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFetcher_Fetch_MalformedJSON(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var fe *FetchError
	if _, err := f.Fetch(context.Background(), "London"); !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestFetcher_Fetch_EmptyCity(t *testing.T) {
	called := false
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	var fe *FetchError
	if _, err := f.Fetch(context.Background(), "  "); !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if called {
		t.Fatal("no request should be made for an empty city")
	}
}

func TestKelvinToFahrenheit(t *testing.T) {
	if got := kelvinToFahrenheit(273.15); math.Abs(got-32) > 1e-9 {
		t.Fatalf("273.15K = %v°F; want 32", got)
	}
	if got := kelvinToFahrenheit(283.15); math.Abs(got-50) > 1e-9 {
		t.Fatalf("283.15K = %v°F; want 50", got)
	}
}
