package sapclient

import (
	"errors"
	"strings"
)

// apiRoot is the versioned root segment of the Service Layer. Continuation
// links are normalized against it so they can be replayed as relative
// endpoints.
const apiRoot = "/b1s/v2/"

// Config holds connection settings for the SAP Business One Service Layer.
type Config struct {
	// BaseURL is the Service Layer origin, e.g. "https://sap.example.com:50000".
	BaseURL string
	// CompanyDB is the company database to log in to.
	CompanyDB string
	// Username is the Service Layer user.
	Username string
	// Password is the Service Layer password.
	Password string
	// AuthTimeoutSeconds applies to Login/Logout calls.
	AuthTimeoutSeconds int
	// DataTimeoutSeconds applies to all other calls.
	DataTimeoutSeconds int
}

// Errors for Service Layer configuration.
var (
	ErrConfigMissingBaseURL   = errors.New("sapclient: base URL is required")
	ErrConfigMissingCompanyDB = errors.New("sapclient: company DB is required")
	ErrConfigMissingUsername  = errors.New("sapclient: username is required")
	ErrConfigMissingPassword  = errors.New("sapclient: password is required")
)

// NewConfig creates a Service Layer configuration with default timeouts.
func NewConfig(baseURL, companyDB, username, password string) *Config {
	return &Config{
		BaseURL:            baseURL,
		CompanyDB:          companyDB,
		Username:           username,
		Password:           password,
		AuthTimeoutSeconds: 30,
		DataTimeoutSeconds: 60,
	}
}

// Validate validates the configuration and fills in default timeouts.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.CompanyDB == "" {
		return ErrConfigMissingCompanyDB
	}
	if c.Username == "" {
		return ErrConfigMissingUsername
	}
	if c.Password == "" {
		return ErrConfigMissingPassword
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.AuthTimeoutSeconds <= 0 {
		c.AuthTimeoutSeconds = 30
	}
	if c.DataTimeoutSeconds <= 0 {
		c.DataTimeoutSeconds = 60
	}
	return nil
}
