package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/shakeeb2001/Weather-App/internal/models"
)

type apiResponse = struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOpenWeatherMap struct {
	APIKey  string
	BaseURL string
	client  HTTPClient
	logger  *log.Logger
}

func NewOpenWeatherMapClient(apiKey, baseURL string, httpClient HTTPClient, logger *log.Logger) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{APIKey: apiKey, BaseURL: baseURL, client: httpClient, logger: logger}
}

// Fetch retrieves current weather for a free-text location query. The
// location goes into the q parameter as given; only URL encoding is applied.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, location string) (models.Snapshot, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", s.APIKey)
	reqURL := s.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Snapshot{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Println("failed to close response body:", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return models.Snapshot{}, fmt.Errorf("OpenWeatherMap error: status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Snapshot{}, err
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.Snapshot{}, err
	}
	if len(raw.Weather) == 0 {
		return models.Snapshot{}, fmt.Errorf("OpenWeatherMap response for %q has no weather block", location)
	}

	return models.Snapshot{
		Location:        location,
		Description:     raw.Weather[0].Description,
		TempKelvin:      raw.Main.Temp,
		FeelsLikeKelvin: raw.Main.FeelsLike,
		Humidity:        raw.Main.Humidity,
		Pressure:        raw.Main.Pressure,
		WindSpeed:       raw.Wind.Speed,
		Cloudiness:      raw.Clouds.All,
		Raw:             body,
	}, nil
}
