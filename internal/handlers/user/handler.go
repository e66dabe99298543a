package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shakeeb2001/Weather-App/internal/metrics"
	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/pipeline"
	"github.com/shakeeb2001/Weather-App/internal/repository"
)

const timeoutDuration = 10 * time.Second

const manualTrigger = "manual"

type userStore interface {
	Create(ctx context.Context, email, location string) (models.User, error)
	UpdateLocation(ctx context.Context, email, location string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	RecordsByDate(ctx context.Context, email, date string) ([]models.WeatherRecord, error)
}

type pipelineRunner interface {
	Run(ctx context.Context, user models.User) pipeline.Outcome
}

type Handler struct {
	store    userStore
	pipeline pipelineRunner
	m        *metrics.Metrics
	logger   *log.Logger
}

func NewHandler(store userStore, pipe pipelineRunner, m *metrics.Metrics, logger *log.Logger) *Handler {
	return &Handler{store: store, pipeline: pipe, m: m, logger: logger}
}

// Create
// @Summary Register a user
// @Description Registers an email with a location for scheduled weather reports.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.NewUserData true "Email and location"
// @Success 201 {object} models.User
// @Failure 400
// @Failure 500
// @Router /users [post]
func (h *Handler) Create(c *gin.Context) {
	var data models.NewUserData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.logger.Printf("Failed to bind user data: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	created, err := h.store.Create(ctx, data.Email, data.Location)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
			return
		}
		h.logger.Printf("Failed to create user: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.m.UsersRegistered.Inc()
	c.JSON(http.StatusCreated, created)
}

// UpdateLocation
// @Summary Update a user's location
// @Description Changes the location future reports are fetched for.
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "Registered email"
// @Param update body models.LocationUpdate true "New location"
// @Success 200 {object} models.User
// @Failure 400
// @Failure 404
// @Failure 500
// @Router /users/{email} [put]
func (h *Handler) UpdateLocation(c *gin.Context) {
	email := c.Param("email")

	var data models.LocationUpdate
	if err := c.ShouldBindJSON(&data); err != nil {
		h.logger.Printf("Failed to bind location update: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	updated, err := h.store.UpdateLocation(ctx, email, data.Location)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Printf("Failed to update location for %s: %s", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetWeather
// @Summary Get stored weather records for a day
// @Description Returns every history record whose date matches; duplicates from repeated same-day runs are all returned.
// @Tags users
// @Produce json
// @Param email path string true "Registered email"
// @Param date query string true "Calendar day (YYYY-MM-DD)"
// @Success 200 {array} models.WeatherRecord
// @Failure 404
// @Failure 500
// @Router /users/{email}/weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	email := c.Param("email")
	date := c.Query("date")

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	records, err := h.store.RecordsByDate(ctx, email, date)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Printf("Failed to read weather history for %s: %s", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// SendReport
// @Summary Send a weather report now
// @Description Runs the fetch-store-notify pipeline for one user outside the schedule. Pipeline-internal failures are logged, not surfaced.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body models.ReportRequest true "Registered email"
// @Success 200
// @Failure 400
// @Failure 404
// @Failure 500
// @Router /send-weather-report [post]
func (h *Handler) SendReport(c *gin.Context) {
	var data models.ReportRequest
	if err := c.ShouldBindJSON(&data); err != nil {
		h.logger.Printf("Failed to bind report request: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	u, err := h.store.GetByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Printf("Failed to load user %s: %s", data.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// The run swallows its own stage failures; the caller gets 200 either
	// way, same as the scheduled path.
	outcome := h.pipeline.Run(ctx, u)
	h.m.RecordPipelineRun(manualTrigger, string(outcome.Stage))
	if !outcome.Sent() {
		h.logger.Printf("Manual run for %s stopped at %s stage", u.Email, outcome.Stage)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Weather report sent"})
}
