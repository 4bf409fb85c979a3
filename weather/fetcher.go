package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Fetcher retrieves current weather from OpenWeatherMap.
type Fetcher struct {
	client  *http.Client
	apiKey  string
	baseURL string
	now     func() time.Time
}

func NewFetcher(client *http.Client, apiKey string) *Fetcher {
	if client == nil {
		panic("http client is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		panic("api key is required")
	}

	return &Fetcher{
		client:  client,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		now:     time.Now,
	}
}

// Fetch issues one synchronous request for the city and normalizes the
// response into a Record. The API reports temperature in Kelvin; the record
// carries Fahrenheit. The timestamp is captured locally at call time, not
// taken from the API payload.
func (f *Fetcher) Fetch(ctx context.Context, city string) (Record, error) {
	if strings.TrimSpace(city) == "" {
		return Record{}, &FetchError{City: city, Err: errors.New("empty city name")}
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", f.apiKey)

	u := fmt.Sprintf("%s?%s", f.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Record{}, &FetchError{City: city, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Record{}, &FetchError{City: city, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Record{}, &FetchError{City: city, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var payload struct {
		Main struct {
			TempK    *float64 `json:"temp"`
			Humidity *int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Record{}, &FetchError{City: city, Err: fmt.Errorf("decode response: %w", err)}
	}

	if payload.Main.TempK == nil || payload.Main.Humidity == nil {
		return Record{}, &FetchError{City: city, Err: errors.New("response missing temperature or humidity")}
	}
	if len(payload.Weather) == 0 || payload.Weather[0].Main == "" {
		return Record{}, &FetchError{City: city, Err: errors.New("response missing condition")}
	}

	humidity := *payload.Main.Humidity
	if humidity < 0 || humidity > 100 {
		return Record{}, &FetchError{City: city, Err: fmt.Errorf("humidity %d out of range", humidity)}
	}

	return Record{
		City:        city,
		Timestamp:   f.now().UTC().Format(TimestampLayout),
		Temperature: kelvinToFahrenheit(*payload.Main.TempK),
		Humidity:    humidity,
		Condition:   payload.Weather[0].Main,
	}, nil
}

func kelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}
