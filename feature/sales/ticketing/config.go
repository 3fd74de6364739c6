package ticketing

// Config holds configuration for the ticketing API client.
type Config struct {
	// BaseURL is the per-event endpoint prefix; the event id is appended to it.
	BaseURL string `mapstructure:"base_url" default:""`
	// Token is the bearer token sent with every request.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds is the request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}
