package models

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StartSessionRequest is the payload of POST /api/sessions/start.
// PracticeType defaults to freestyle when empty.
type StartSessionRequest struct {
	Level        Level        `json:"level"`
	PracticeType PracticeType `json:"practiceType"`
}

// UpdatePreferencesRequest is the payload of PUT /api/users/preferences.
// Nil fields are left unchanged.
type UpdatePreferencesRequest struct {
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	ReminderTime  *string `json:"reminderTime,omitempty"`
	Language      *string `json:"language,omitempty"`
	SoundEffects  *bool   `json:"soundEffects,omitempty"`
}
