package model

import "time"

// BannedUser is a globally banned user identity.
type BannedUser struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	Note      string    `json:"note"`
	BannedFor string    `json:"banned_for"`
	CreatedAt time.Time `json:"creation_date"`
}

// BanRequest is the body of a ban request.
type BanRequest struct {
	UserID    *int64 `json:"user_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	IP        string `json:"ip" validate:"required,ip"`
	Note      string `json:"note" validate:"required,max=1000"`
	BannedFor string `json:"banned_for" validate:"required,max=200"`
}

// EmailEntry is an address collected through a player's email form.
type EmailEntry struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Registrar int64     `json:"registrar"`
	CreatedAt time.Time `json:"creation_date"`
}

// EmailFormRequest is the public email form body.
type EmailFormRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"required,email,max=200"`
}

// Settings are the plugin-wide settings.
type Settings struct {
	APIKey    string `json:"api_key"`
	CustomCSS string `json:"custom_css"`
}

// SettingsRequest updates one or both settings.
type SettingsRequest struct {
	APIKey    *string `json:"api_key" validate:"omitempty,max=100"`
	CustomCSS *string `json:"custom_css" validate:"omitempty,max=100000"`
}

// TicketRequest is a support ticket.
type TicketRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

