// Package models defines the payloads exchanged with the auth, sports, reco
// and chat services.
package models

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login. Depending on the deployment the
// bearer comes back as token or as access_token.
type LoginResponse struct {
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// Bearer returns access_token when present, token otherwise.
func (r LoginResponse) Bearer() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is a bare {"message": ...} reply.
type MessageResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// User is an account as exposed by the admin API.
type User struct {
	ID        int64   `json:"id"`
	Name      *string `json:"name"`
	Email     string  `json:"email"`
	IsActive  bool    `json:"is_active"`
	IsAdmin   bool    `json:"is_admin"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// DisplayName returns the name or "—" when unset.
func (u User) DisplayName() string {
	if u.Name == nil || *u.Name == "" {
		return "—"
	}
	return *u.Name
}

// UserUpdate is the body of PUT /admin/users/{id}. Nil fields are left
// unchanged by the service.
type UserUpdate struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsAdmin     *bool   `json:"is_admin,omitempty"`
	NewPassword string  `json:"new_password,omitempty"`
}

// UserCreate is the body of POST /admin/users.
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// NotificationRequest is the body of POST /admin/notifications.
type NotificationRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notification is a message sent by an administrator to a user.
type Notification struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ProfileUpsert is the profile mirrored to the recommendation service.
type ProfileUpsert struct {
	Email    string   `json:"email,omitempty"`
	Age      *int     `json:"age,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Activity string   `json:"activity,omitempty"`
	Goal     string   `json:"goal,omitempty"`
}

// RecoRequest is the body of POST /reco/generate.
type RecoRequest struct {
	UserID string `json:"user_id"`
	Lang   string `json:"lang"`
}

// RecoResponse is an AI recommendation and the profile it was built from.
type RecoResponse struct {
	Answer  string         `json:"answer"`
	Profile map[string]any `json:"profile"`
}

// RecoItem is one entry of the recommendation history.
type RecoItem struct {
	ID        string `json:"id"`
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Measurement is one body-measurement record.
type Measurement struct {
	Date     string   `json:"date"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	WaistCm  *float64 `json:"waist_cm,omitempty"`
	HipsCm   *float64 `json:"hips_cm,omitempty"`
	ChestCm  *float64 `json:"chest_cm,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// MeasurementCreated acknowledges a new measurement.
type MeasurementCreated struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// AskRequest is the body of POST /chat/ask.
type AskRequest struct {
	Message string `json:"message"`
	Lang    string `json:"lang"`
	Profile any    `json:"profile,omitempty"`
}

// AskResponse carries the coach's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Sport is an entry of the sports catalogue.
type Sport struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// SportVideo is a training video suggested by the sports service.
type SportVideo struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image,omitempty"`
}

// SportCategories lists the categories offered on the sports page.
var SportCategories = []string{
	"Yoga",
	"Cardio",
	"HIIT",
	"Musculation",
	"Étirements",
	"Pilates",
	"Danse Fitness",
	"Marche Active",
}

// SportRecommendations is returned by GET /sports/recommendations.
type SportRecommendations struct {
	Category string       `json:"categorie_recommandee"`
	Videos   []SportVideo `json:"videos"`
}

// SportCategory is returned by GET /sports/category.
type SportCategory struct {
	Category string       `json:"categorie"`
	Videos   []SportVideo `json:"videos"`
}
