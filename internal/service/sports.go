package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

// Values used when the cached profile lacks them.
const (
	DefaultAge      = 30
	DefaultWeightKg = 60.0
	DefaultGoal     = "Bien-être"
)

// SportsService browses the sports catalogue and video suggestions.
type SportsService struct {
	api      Requester
	profiles *profile.Cache
}

func NewSportsService(api Requester, profiles *profile.Cache) *SportsService {
	return &SportsService{api: api, profiles: profiles}
}

func (s *SportsService) params() (age int, weight float64, goal string) {
	age, weight, goal = DefaultAge, DefaultWeightKg, DefaultGoal
	p, ok := s.profiles.Get()
	if !ok {
		return
	}
	if p.Age != nil {
		age = *p.Age
	}
	if p.WeightKg != nil {
		weight = *p.WeightKg
	}
	if p.Goal != nil && *p.Goal != "" {
		goal = *p.Goal
	}
	return
}

// Recommendations returns the category and videos suggested for the cached
// profile.
func (s *SportsService) Recommendations(ctx context.Context) (models.SportRecommendations, error) {
	age, weight, goal := s.params()
	q := url.Values{}
	q.Set("age", strconv.Itoa(age))
	q.Set("poids", strconv.FormatFloat(weight, 'f', -1, 64))
	q.Set("objectif", goal)

	var resp models.SportRecommendations
	if err := s.api.Get(ctx, "/recommendations?"+q.Encode(), &resp); err != nil {
		return resp, fmt.Errorf("recommendations: %w", err)
	}
	return resp, nil
}

// Category returns the videos of one category, personalised by age and goal.
func (s *SportsService) Category(ctx context.Context, name string) (models.SportCategory, error) {
	var resp models.SportCategory
	name = strings.TrimSpace(name)
	if name == "" {
		return resp, invalid("category name is empty")
	}
	age, _, goal := s.params()
	q := url.Values{}
	q.Set("name", name)
	q.Set("age", strconv.Itoa(age))
	q.Set("objectif", goal)

	if err := s.api.Get(ctx, "/category?"+q.Encode(), &resp); err != nil {
		return resp, fmt.Errorf("category %s: %w", name, err)
	}
	return resp, nil
}

func (s *SportsService) List(ctx context.Context) ([]models.Sport, error) {
	var list []models.Sport
	if err := s.api.Get(ctx, "/sports", &list); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return list, nil
}

func (s *SportsService) Search(ctx context.Context, q string) ([]models.Sport, error) {
	var list []models.Sport
	if err := s.api.Get(ctx, "/sports/search?q="+url.QueryEscape(q), &list); err != nil {
		return nil, fmt.Errorf("search sports: %w", err)
	}
	return list, nil
}
