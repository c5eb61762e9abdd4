package bucketx

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// ValidateConfig performs comprehensive validation of the client configuration
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "configuration cannot be nil"}
	}

	var problems []string

	if cfg.Bucket == "" {
		problems = append(problems, "bucket cannot be empty")
	} else if err := validateBucketName(cfg.Bucket); err != nil {
		problems = append(problems, fmt.Sprintf("invalid bucket name: %v", err))
	}

	if cfg.Region == "" && cfg.Endpoint == "" {
		problems = append(problems, "region is required when endpoint is not specified (AWS mode)")
	}

	// Disallow partially-specified explicit credentials
	if (cfg.AccessKey == "" && cfg.SecretKey != "") || (cfg.AccessKey != "" && cfg.SecretKey == "") {
		problems = append(problems, "both access_key and secret_key must be set together; do not provide only one")
	}

	// Without explicit credentials, the config must opt into the SDK default
	// chain, a profile, or a RoleARN. Custom endpoints (MinIO) rarely offer
	// STS, so require a concrete credential source there.
	if cfg.AccessKey == "" && cfg.SecretKey == "" && cfg.Endpoint != "" {
		if cfg.Profile == "" && cfg.RoleARN == "" && !cfg.UseSDKDefaults {
			problems = append(problems, "credentials required for custom endpoint: provide access_key+secret_key or enable use_sdk_defaults")
		}
	}

	if cfg.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if cfg.RequestTimeout > 10*time.Minute {
		problems = append(problems, "request_timeout should not exceed 10 minutes")
	}

	if cfg.MaxRetries < 0 {
		problems = append(problems, "max_retries cannot be negative")
	}
	if cfg.MaxRetries > 10 {
		problems = append(problems, "max_retries should not exceed 10")
	}

	if cfg.BackoffInitial <= 0 {
		problems = append(problems, "backoff_initial must be positive")
	}
	if cfg.BackoffMax <= cfg.BackoffInitial {
		problems = append(problems, "backoff_max must be greater than backoff_initial")
	}

	if cfg.PartSize < 5<<20 { // 5MB minimum for S3
		problems = append(problems, "part_size must be at least 5MB for S3 compatibility")
	}
	if cfg.PartSize > 5<<30 { // 5GB maximum for S3
		problems = append(problems, "part_size must not exceed 5GB for S3 compatibility")
	}

	if cfg.PartConcurrency <= 0 {
		problems = append(problems, "part_concurrency must be positive")
	}
	if cfg.PartConcurrency > 50 {
		problems = append(problems, "part_concurrency should not exceed 50 for reasonable resource usage")
	}

	if cfg.MultipartThreshold < cfg.PartSize {
		problems = append(problems, "multipart_threshold must be at least part_size")
	}

	if cfg.Endpoint != "" {
		if err := validateEndpoint(cfg.Endpoint); err != nil {
			problems = append(problems, fmt.Sprintf("invalid endpoint: %v", err))
		}
	}

	if cfg.RoleARN != "" && !isPlausibleRoleARN(cfg.RoleARN) {
		problems = append(problems, "role_arn looks invalid: must be a valid IAM role ARN (e.g., arn:aws:iam::123456789012:role/RoleName)")
	}

	if len(problems) > 0 {
		return &ValidationError{
			Field:   "config",
			Message: strings.Join(problems, "; "),
		}
	}

	return nil
}

// Sanitize applies automatic fixes to configuration where possible and
// returns a sanitized copy without mutating the receiver.
func (cfg *Config) Sanitize() *Config {
	if cfg == nil {
		return DefaultConfig()
	}

	sanitized := *cfg

	if sanitized.Region == "" && sanitized.Endpoint == "" {
		sanitized.Region = "us-east-1"
	}
	if sanitized.RequestTimeout == 0 {
		sanitized.RequestTimeout = 30 * time.Second
	}
	if sanitized.MaxRetries == 0 {
		sanitized.MaxRetries = 3
	}
	if sanitized.BackoffInitial == 0 {
		sanitized.BackoffInitial = 200 * time.Millisecond
	}
	if sanitized.BackoffMax == 0 {
		sanitized.BackoffMax = 5 * time.Second
	}
	if sanitized.PartSize == 0 {
		sanitized.PartSize = 8 << 20
	}
	if sanitized.PartConcurrency == 0 {
		sanitized.PartConcurrency = 4
	}
	if sanitized.MultipartThreshold == 0 {
		sanitized.MultipartThreshold = 16 << 20
	}
	if sanitized.MultipartThreshold < sanitized.PartSize {
		sanitized.MultipartThreshold = sanitized.PartSize
	}

	if sanitized.Endpoint != "" {
		sanitized.Endpoint = strings.TrimSpace(sanitized.Endpoint)
		sanitized.Endpoint = strings.TrimSuffix(sanitized.Endpoint, "/")
	}

	return &sanitized
}

// isPlausibleRoleARN performs a light-weight validation of an IAM role ARN
func isPlausibleRoleARN(arn string) bool {
	// Expected form: arn:partition:service:region:account-id:resource
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 {
		return false
	}
	if parts[0] != "arn" {
		return false
	}
	if parts[2] != "iam" {
		return false
	}
	acct := parts[4]
	if acct == "" {
		return false
	}
	for _, r := range acct {
		if r < '0' || r > '9' {
			return false
		}
	}
	return strings.HasPrefix(parts[5], "role/")
}

// validateBucketName validates S3 bucket naming rules
func validateBucketName(bucket string) error {
	if len(bucket) < 3 || len(bucket) > 63 {
		return fmt.Errorf("bucket name must be between 3 and 63 characters")
	}

	if strings.HasPrefix(bucket, "-") || strings.HasSuffix(bucket, "-") {
		return fmt.Errorf("bucket name cannot start or end with a hyphen")
	}

	if strings.HasPrefix(bucket, ".") || strings.HasSuffix(bucket, ".") {
		return fmt.Errorf("bucket name cannot start or end with a period")
	}

	if strings.Contains(bucket, "..") || strings.Contains(bucket, "--") {
		return fmt.Errorf("bucket name cannot contain consecutive periods or hyphens")
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return fmt.Errorf("bucket name contains invalid character: %c", char)
		}
	}

	// Bucket names must not look like IP addresses
	parts := strings.Split(bucket, ".")
	if len(parts) == 4 {
		allNumeric := true
		for _, part := range parts {
			if !isNumeric(part) {
				allNumeric = false
				break
			}
		}
		if allNumeric {
			return fmt.Errorf("bucket name cannot be formatted as an IP address")
		}
	}

	return nil
}

func isValidBucketChar(char rune) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= '0' && char <= '9') ||
		char == '-' || char == '.'
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// validateEndpoint validates the endpoint URL format
func validateEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return nil
	}

	if strings.Contains(endpoint, "://") {
		return fmt.Errorf("endpoint protocol must be http or https")
	}

	if strings.Contains(endpoint, " ") {
		return fmt.Errorf("endpoint cannot contain spaces")
	}

	return nil
}
