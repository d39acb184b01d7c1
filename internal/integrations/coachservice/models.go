package coachservice

// Coach is a coach profile from CoachService.
type Coach struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"` // IANA name, e.g. "Europe/London"
	Active      bool   `json:"active"`
}

// Service is one published offering of a coach.
type Service struct {
	ID              int64   `json:"id"`
	CoachID         int64   `json:"coach_id"`
	Name            string  `json:"name"`
	Kind            string  `json:"kind"` // intro, session, package_session
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active"`
}

// ErrorResponse is CoachService's error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
