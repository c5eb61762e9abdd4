package bucketx

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the connection settings for a bucketx client
type Config struct {
	// Bucket is the storage bucket name
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Region is the AWS region (e.g., "us-west-2")
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is the custom endpoint URL (for MinIO, etc.)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// UsePathStyle forces path-style addressing (true for MinIO)
	UsePathStyle bool `mapstructure:"use_path_style" yaml:"use_path_style"`

	// AccessKey is the access key ID
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`

	// SecretKey is the secret access key
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// SessionToken is the temporary session token (optional)
	SessionToken string `mapstructure:"session_token" yaml:"session_token"`

	// UseSDKDefaults when true lets the AWS SDK default credential chain
	// (env, shared config, instance profile) be used when explicit
	// credentials are not provided. Default: false
	UseSDKDefaults bool `mapstructure:"use_sdk_defaults" yaml:"use_sdk_defaults"`

	// Profile selects a shared credentials/profile name when loading SDK defaults
	Profile string `mapstructure:"profile" yaml:"profile"`

	// RoleARN optionally specifies an ARN to assume via STS. When set, the
	// client uses the resolved credentials as the source and assumes this role.
	RoleARN string `mapstructure:"role_arn" yaml:"role_arn"`

	// ExternalID is passed to STS AssumeRole when RoleARN is used
	ExternalID string `mapstructure:"external_id" yaml:"external_id"`

	// RequestTimeout is the timeout for individual requests
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// MaxRetries is the maximum number of retry attempts made by the SDK.
	// bucketx layers no retry policy of its own on top of this.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// BackoffInitial is the initial backoff delay
	BackoffInitial time.Duration `mapstructure:"backoff_initial" yaml:"backoff_initial"`

	// BackoffMax is the maximum backoff delay
	BackoffMax time.Duration `mapstructure:"backoff_max" yaml:"backoff_max"`

	// PartSize is the multipart upload part size
	PartSize int64 `mapstructure:"part_size" yaml:"part_size"`

	// PartConcurrency is the multipart upload concurrency
	PartConcurrency int `mapstructure:"part_concurrency" yaml:"part_concurrency"`

	// MultipartThreshold is the payload size above which writes switch to
	// chunked multipart upload
	MultipartThreshold int64 `mapstructure:"multipart_threshold" yaml:"multipart_threshold"`

	// DisableSSL disables SSL for connections (development only)
	DisableSSL bool `mapstructure:"disable_ssl" yaml:"disable_ssl"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Region:             "us-east-1",
		RequestTimeout:     30 * time.Second,
		MaxRetries:         3,
		BackoffInitial:     200 * time.Millisecond,
		BackoffMax:         5 * time.Second,
		PartSize:           8 << 20, // 8MB
		PartConcurrency:    4,
		MultipartThreshold: 16 << 20, // 16MB
	}
}

// LoadConfig reads a configuration file (yaml, json, or toml, decided by the
// file extension), overlays it on DefaultConfig, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %q: %w", path, err)
	}

	cfg = cfg.Sanitize()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EndpointURL returns the full endpoint URL, adding a scheme when the
// configured endpoint has none.
func (c *Config) EndpointURL() string {
	if c.Endpoint == "" {
		return ""
	}

	if strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://") {
		return c.Endpoint
	}

	scheme := "https"
	if c.DisableSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// String returns a safe string representation (redacts secrets)
func (c *Config) String() string {
	return fmt.Sprintf("Config{Bucket:%s, Region:%s, Endpoint:%s, UsePathStyle:%v}",
		c.Bucket, c.Region, c.Endpoint, c.UsePathStyle)
}
