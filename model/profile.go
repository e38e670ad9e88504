package model

import "time"

// ImageType selects which remote image source to use for item icons.
type ImageType string

const (
	ImageNormal   ImageType = "normal"
	ImageDetailed ImageType = "detailed"
)

// Preferences holds user-adjustable display settings.
type Preferences struct {
	ImageType ImageType `json:"image_type"`
	DarkMode  bool      `json:"dark_mode"`
	Currency  string    `json:"currency"`
}

// Profile is the persisted user profile.
type Profile struct {
	Username    string      `json:"username"`
	Preferences Preferences `json:"preferences"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
