package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

const (
	// EmptyAnswer replaces a blank reply from the coach.
	EmptyAnswer = "Je n’ai pas compris 🧐"
	// DefaultLang is sent when the caller does not pick a language.
	DefaultLang = "fr"
)

// ChatService talks to the coaching chatbot.
type ChatService struct {
	api      Requester
	profiles *profile.Cache
}

func NewChatService(api Requester, profiles *profile.Cache) *ChatService {
	return &ChatService{api: api, profiles: profiles}
}

// Ask sends message with the cached profile, if any, and returns the answer.
func (s *ChatService) Ask(ctx context.Context, message, lang string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", invalid("message is empty")
	}
	if lang == "" {
		lang = DefaultLang
	}

	req := models.AskRequest{Message: message, Lang: lang}
	if p, ok := s.profiles.Get(); ok {
		req.Profile = p
	}

	var resp models.AskResponse
	if err := s.api.Post(ctx, "/ask", req, &resp); err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	if strings.TrimSpace(resp.Answer) == "" {
		return EmptyAnswer, nil
	}
	return resp.Answer, nil
}
