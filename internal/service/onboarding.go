package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

// ProfileService completes the onboarding form.
type ProfileService struct {
	api     Requester
	session *session.Store
	cache   *profile.Cache
	log     *zap.Logger
}

// NewProfileService returns a ProfileService mirroring profiles to the
// recommendation service behind api.
func NewProfileService(api Requester, sess *session.Store, cache *profile.Cache, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{api: api, session: sess, cache: cache, log: log}
}

// Complete mirrors p to the recommendation service and merges it into the
// local cache. A failed upload is logged and does not block the local save.
func (s *ProfileService) Complete(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	up := models.ProfileUpsert{
		Email:    s.session.Snapshot().Email,
		Age:      p.Age,
		HeightCm: p.HeightCm,
		WeightKg: p.WeightKg,
		Gender:   deref(p.Gender),
		Activity: deref(p.Activity),
		Goal:     deref(p.Goal),
	}
	if err := s.api.Post(ctx, "/profile", up, nil); err != nil {
		s.log.Warn("profile upload failed", zap.Error(err))
	}
	return s.cache.Save(p)
}

// Current returns the cached profile.
func (s *ProfileService) Current() (*profile.Profile, bool) {
	return s.cache.Get()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
