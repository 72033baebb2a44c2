package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

// RecoService asks the recommendation service for AI training advice.
type RecoService struct {
	api     Requester
	session *session.Store
}

func NewRecoService(api Requester, sess *session.Store) *RecoService {
	return &RecoService{api: api, session: sess}
}

// UserID identifies the user towards the recommendation service: the sub
// claim when present, the stored email otherwise.
func (s *RecoService) UserID() string {
	if sub := s.session.Claims().String("sub"); sub != "" {
		return sub
	}
	return s.session.Snapshot().Email
}

func (s *RecoService) Generate(ctx context.Context, lang string) (models.RecoResponse, error) {
	var resp models.RecoResponse
	uid := s.UserID()
	if uid == "" {
		return resp, ErrNotAuthenticated
	}
	if err := s.api.Post(ctx, "/generate", models.RecoRequest{UserID: uid, Lang: lang}, &resp); err != nil {
		return resp, fmt.Errorf("generate recommendation: %w", err)
	}
	return resp, nil
}

func (s *RecoService) History(ctx context.Context) ([]models.RecoItem, error) {
	uid := s.UserID()
	if uid == "" {
		return nil, ErrNotAuthenticated
	}
	var items []models.RecoItem
	if err := s.api.Get(ctx, "/history/"+url.PathEscape(uid), &items); err != nil {
		return nil, fmt.Errorf("recommendation history: %w", err)
	}
	return items, nil
}
