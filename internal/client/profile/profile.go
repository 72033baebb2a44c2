// Package profile caches the user's fitness profile in client storage.
//
// Presence of a cached profile is what decides whether onboarding is still
// required. Values are not validated.
package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/client/storage"
)

// Key is the storage key of the cached profile.
const Key = "profile_v1"

// Training levels offered by the onboarding form.
const (
	LevelBeginner     = "debutant"
	LevelIntermediate = "intermediaire"
	LevelAdvanced     = "avance"
)

// Profile is the locally cached fitness profile. Every field is optional so
// that a partial update can be expressed.
type Profile struct {
	Age               *int     `json:"age,omitempty"`
	WeightKg          *float64 `json:"weightKg,omitempty"`
	HeightCm          *float64 `json:"heightCm,omitempty"`
	Goal              *string  `json:"goal,omitempty"`
	DaysPerWeek       *int     `json:"daysPerWeek,omitempty"`
	MinutesPerSession *int     `json:"minutesPerSession,omitempty"`
	Level             *string  `json:"level,omitempty"`
	Gender            *string  `json:"gender,omitempty"`
	Activity          *string  `json:"activity,omitempty"`
}

// Ptr returns a pointer to v. Handy for building partial profiles.
func Ptr[T any](v T) *T { return &v }

// Cache reads and writes the profile under Key.
type Cache struct {
	st storage.Store
}

// NewCache returns a Cache over st.
func NewCache(st storage.Store) *Cache {
	return &Cache{st: st}
}

// Get returns the cached profile. A missing or unreadable entry is reported
// as absent.
func (c *Cache) Get() (*Profile, bool) {
	raw, ok := c.st.Get(Key)
	if raw = strings.TrimSpace(raw); !ok || raw == "" || raw == "null" {
		return nil, false
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Has reports whether a profile is cached.
func (c *Cache) Has() bool {
	_, ok := c.Get()
	return ok
}

// Save merges the fields set in partial over the cached profile and stores
// the result. Keys already stored but unknown to Profile are kept.
func (c *Cache) Save(partial Profile) (Profile, error) {
	patch, err := toObject(partial)
	if err != nil {
		return Profile{}, err
	}

	var merged Profile
	err = c.st.Update(func(tx storage.Tx) error {
		current := map[string]json.RawMessage{}
		if raw, ok := tx.Get(Key); ok {
			// an unreadable entry is replaced
			if err := json.Unmarshal([]byte(raw), &current); err != nil || current == nil {
				current = map[string]json.RawMessage{}
			}
		}
		for k, v := range patch {
			current[k] = v
		}

		out, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		if err := json.Unmarshal(out, &merged); err != nil {
			return fmt.Errorf("decode merged profile: %w", err)
		}
		tx.Set(Key, string(out))
		return nil
	})
	if err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return merged, nil
}

// Clear removes the cached profile.
func (c *Cache) Clear() error {
	if err := c.st.Remove(Key); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

func toObject(p Profile) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return obj, nil
}
