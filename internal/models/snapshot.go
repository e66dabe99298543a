package models

import "encoding/json"

// Snapshot is the structured weather data returned by the provider for one
// fetch. Temperatures stay in Kelvin as delivered; conversion happens at
// render time. Raw keeps the untouched response body for history records.
type Snapshot struct {
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	TempKelvin      float64         `json:"tempKelvin"`
	FeelsLikeKelvin float64         `json:"feelsLikeKelvin"`
	Humidity        int             `json:"humidity"`
	Pressure        int             `json:"pressure"`
	WindSpeed       float64         `json:"windSpeed"`
	Cloudiness      int             `json:"cloudiness"`
	Raw             json.RawMessage `json:"raw"`
}
