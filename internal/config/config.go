package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	LiveKit LiveKitConfig
	Storage StorageConfig
	Egress  EgressConfig
	OpenAI  OpenAIConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// LiveKitConfig carries the media-backend endpoint and credentials.
// SIPTrunkID is optional at startup; outbound calls fail without it.
type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string

	SIPTrunkID string
	AgentName  string
}

// StorageConfig carries S3 credentials for egress artifact retrieval.
// Only validated when a recording with an S3 target is requested.
type StorageConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string

	// LocalDir is where completed recordings are downloaded.
	LocalDir string
}

type EgressConfig struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// OpenAIConfig is used by the transcription helper only.
type OpenAIConfig struct {
	APIKey      string
	AgentAPIURL string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.LiveKit.URL = strings.TrimSpace(os.Getenv("LIVEKIT_URL"))
	c.LiveKit.APIKey = strings.TrimSpace(os.Getenv("LIVEKIT_API_KEY"))
	c.LiveKit.APISecret = os.Getenv("LIVEKIT_API_SECRET")
	c.LiveKit.SIPTrunkID = strings.TrimSpace(os.Getenv("SIP_OUTBOUND_TRUNK_ID"))
	c.LiveKit.AgentName = strings.TrimSpace(os.Getenv("AGENT_NAME"))

	c.Storage.AccessKey = strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	c.Storage.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	c.Storage.Bucket = strings.TrimSpace(os.Getenv("AWS_S3_BUCKET"))
	c.Storage.Region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	c.Storage.LocalDir = strings.TrimSpace(os.Getenv("RECORDINGS_DIR"))

	// Duration env vars are optional; defaults applied in Validate().
	c.Egress.PollInterval = mustDuration("EGRESS_POLL_INTERVAL")
	c.Egress.PollTimeout = mustDuration("EGRESS_POLL_TIMEOUT")

	c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAI.AgentAPIURL = strings.TrimSpace(os.Getenv("AGENT_API_URL"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.LiveKit.URL == "" {
		errs = append(errs, errors.New("LIVEKIT_URL is required"))
	}
	if c.LiveKit.APIKey == "" {
		errs = append(errs, errors.New("LIVEKIT_API_KEY is required"))
	}
	if c.LiveKit.APISecret == "" {
		errs = append(errs, errors.New("LIVEKIT_API_SECRET is required"))
	}
	if c.LiveKit.AgentName == "" {
		// Must match the agent name registered with the backend worker pool.
		c.LiveKit.AgentName = "outbound-caller"
	}

	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "recordings"
	}

	if c.Egress.PollInterval <= 0 {
		c.Egress.PollInterval = 5 * time.Second
	}
	if c.Egress.PollTimeout <= 0 {
		// Bounded by default so a stuck egress cannot pin a request forever.
		c.Egress.PollTimeout = 30 * time.Minute
	}
	if c.Egress.PollTimeout <= c.Egress.PollInterval {
		errs = append(errs, errors.New("EGRESS_POLL_TIMEOUT must be greater than EGRESS_POLL_INTERVAL"))
	}

	return joinErrors(errs)
}

// HasS3 reports whether the credentials needed for S3 egress output are
// present. Region is optional; the SDK falls back to its own resolution
// chain when it is empty.
func (s StorageConfig) HasS3() bool {
	return s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
