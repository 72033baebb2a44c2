// Package chat keeps coaching conversations in client storage.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/atinyakov/SportConnectIA/internal/client/storage"
)

// Storage keys.
const (
	KeyHistory = "chat_history"
	KeyActive  = "chat_active"
	// message keys live under their own prefix so no id can reach the
	// keys above
	keyPrefix = "chat_msg_"

	// DefaultID is the conversation used before any other was started.
	DefaultID = "default"

	// DefaultWelcome opens every new conversation.
	DefaultWelcome = "Bonjour ! Je suis ton coach SportConnectIA 😊"
)

// ErrUnknownConversation is returned by Use for an id that was never started.
var ErrUnknownConversation = errors.New("unknown conversation")

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat bubble.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewMessage builds a message with a fresh id.
func NewMessage(role Role, text string) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text}
}

// Store persists the conversation list, the messages of each conversation
// and the active conversation id.
type Store struct {
	st      storage.Store
	welcome string
}

// New returns a Store. An empty welcome uses DefaultWelcome.
func New(st storage.Store, welcome string) *Store {
	if welcome == "" {
		welcome = DefaultWelcome
	}
	return &Store{st: st, welcome: welcome}
}

func messagesKey(id string) string { return keyPrefix + id }

// Active returns the active conversation id.
func (s *Store) Active() string {
	if id, ok := s.st.Get(KeyActive); ok && id != "" {
		return id
	}
	return DefaultID
}

// Use makes id the active conversation. id must be DefaultID, the active
// conversation or one of List.
func (s *Store) Use(id string) error {
	if id != DefaultID && id != s.Active() && !slices.Contains(s.List(), id) {
		return fmt.Errorf("select conversation %q: %w", id, ErrUnknownConversation)
	}
	if err := s.st.Set(KeyActive, id); err != nil {
		return fmt.Errorf("select conversation: %w", err)
	}
	return nil
}

// List returns the ids of conversations that received at least one user
// message, oldest first.
func (s *Store) List() []string {
	return readHistory(s.st)
}

// Messages returns the messages of conversation id. A conversation without
// saved messages starts with the welcome message.
func (s *Store) Messages(id string) []Message {
	return s.messages(s.st, id)
}

func (s *Store) messages(r getter, id string) []Message {
	raw, ok := r.Get(messagesKey(id))
	if ok {
		var msgs []Message
		if err := json.Unmarshal([]byte(raw), &msgs); err == nil && msgs != nil {
			return msgs
		}
	}
	return []Message{NewMessage(RoleAssistant, s.welcome)}
}

// Append adds msgs to conversation id. The conversation joins the history
// list with its first user message.
func (s *Store) Append(id string, msgs ...Message) error {
	err := s.st.Update(func(tx storage.Tx) error {
		all := append(s.messages(tx, id), msgs...)
		b, err := json.Marshal(all)
		if err != nil {
			return err
		}
		tx.Set(messagesKey(id), string(b))

		history := readHistory(tx)
		if !slices.Contains(history, id) && slices.ContainsFunc(msgs, func(m Message) bool { return m.Role == RoleUser }) {
			if err := writeHistory(tx, append(history, id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append messages: %w", err)
	}
	return nil
}

// Start begins a new conversation and makes it active.
func (s *Store) Start() (string, error) {
	id := uuid.NewString()
	err := s.st.Update(func(tx storage.Tx) error {
		return s.start(tx, id)
	})
	if err != nil {
		return "", fmt.Errorf("start conversation: %w", err)
	}
	return id, nil
}

func (s *Store) start(tx storage.Tx, id string) error {
	b, err := json.Marshal([]Message{NewMessage(RoleAssistant, s.welcome)})
	if err != nil {
		return err
	}
	tx.Set(messagesKey(id), string(b))
	tx.Set(KeyActive, id)
	return nil
}

// Delete removes conversation id. Deleting the active conversation starts a
// new one. It returns the active id afterwards.
func (s *Store) Delete(id string) (string, error) {
	active := s.Active()
	err := s.st.Update(func(tx storage.Tx) error {
		tx.Remove(messagesKey(id))
		history := slices.DeleteFunc(readHistory(tx), func(h string) bool { return h == id })
		if err := writeHistory(tx, history); err != nil {
			return err
		}
		if id == active {
			active = uuid.NewString()
			return s.start(tx, active)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("delete conversation: %w", err)
	}
	return active, nil
}

type getter interface {
	Get(key string) (string, bool)
}

func readHistory(r getter) []string {
	raw, ok := r.Get(KeyHistory)
	if !ok {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

func writeHistory(tx storage.Tx, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	tx.Set(KeyHistory, string(b))
	return nil
}
