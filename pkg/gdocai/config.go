package gdocai

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the Document AI processor settings
type Config struct {
	ProjectID       string        `yaml:"project_id"`
	Location        string        `yaml:"location"`
	ProcessorID     string        `yaml:"processor_id"`
	CredentialsFile string        `yaml:"credentials_file,omitempty"`
	MaxAttempts     int           `yaml:"max_attempts,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"`
}

// Default request settings
const (
	DefaultMaxAttempts = 3
	DefaultTimeout     = 2 * time.Minute
)

// LoadConfig reads the processor settings from a YAML file
//
// Example file:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	max_attempts: 3
//	timeout: 90s
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Document AI config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse Document AI config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields and fills in request defaults
func (c *Config) Validate() error {
	if c.ProjectID == "" || c.Location == "" || c.ProcessorID == "" {
		return fmt.Errorf("document AI config needs project_id, location and processor_id")
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	return nil
}

// processorName builds the resource name of the processor
func (c *Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// endpoint returns the regional API endpoint
func (c *Config) endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}
