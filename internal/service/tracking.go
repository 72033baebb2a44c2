package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/SportConnectIA/internal/models"
)

// DateLayout is the day format used by measurement records.
const DateLayout = "2006-01-02"

// TrackingService records body measurements.
type TrackingService struct {
	api Requester
	now func() time.Time
}

func NewTrackingService(api Requester) *TrackingService {
	return &TrackingService{api: api, now: time.Now}
}

func measurementsPath(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrNotAuthenticated
	}
	return "/tracking/measurements?email=" + url.QueryEscape(email), nil
}

func (s *TrackingService) Measurements(ctx context.Context, email string) ([]models.Measurement, error) {
	path, err := measurementsPath(email)
	if err != nil {
		return nil, err
	}
	var list []models.Measurement
	if err := s.api.Get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("measurements: %w", err)
	}
	return list, nil
}

// AddMeasurement stores m for email. An empty date means today.
func (s *TrackingService) AddMeasurement(ctx context.Context, email string, m models.Measurement) (models.MeasurementCreated, error) {
	var resp models.MeasurementCreated
	path, err := measurementsPath(email)
	if err != nil {
		return resp, err
	}
	if m.Date == "" {
		m.Date = s.now().Format(DateLayout)
	}
	if err := s.api.Post(ctx, path, m, &resp); err != nil {
		return resp, fmt.Errorf("add measurement: %w", err)
	}
	return resp, nil
}
