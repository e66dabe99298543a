package models

import "encoding/json"

// User is the registrant record. The full weather history is embedded in the
// user document, there is no separate records collection.
type User struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	Location       string          `json:"location"`
	WeatherHistory []WeatherRecord `json:"weatherHistory"`
}

// WeatherRecord is one dated snapshot appended by a successful pipeline run.
// Date is a UTC calendar day (YYYY-MM-DD); Payload is the provider response
// stored verbatim. Records sharing a date are kept as-is, never deduplicated.
type WeatherRecord struct {
	Date    string          `json:"date"`
	Payload json.RawMessage `json:"payload"`
}

type NewUserData struct {
	Email    string `json:"email" binding:"required,email"`
	Location string `json:"location" binding:"required"`
}

type LocationUpdate struct {
	Location string `json:"location" binding:"required"`
}

type ReportRequest struct {
	Email string `json:"email" binding:"required,email"`
}
