package domain

// Config is the subset of service configuration the domain services need.
type Config struct {
	AppName     string `yaml:"appName"`
	DefaultView string `yaml:"defaultView"`

	// DevMode gates the placeholder-artist fallback during context
	// resolution. Never enable in production.
	DevMode     bool   `yaml:"devMode"`
	DevArtistID string `yaml:"devArtistId"`
}
