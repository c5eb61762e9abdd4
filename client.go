package bucketx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cenkalti/backoff/v4"
)

// Client is the convenience facade over an authenticated object-storage
// session. All operations normalize their path argument before the remote
// call and translate backend failures into the bucketx error taxonomy.
//
// A Client issues single synchronous round trips; it holds no mutable state
// besides the session, so concurrent use is only as safe as the underlying
// SDK client. Release the session with Close when done.
type Client struct {
	cfg        *Config
	s3         *s3.Client
	presign    *s3.PresignClient
	httpClient *http.Client
	logger     Logger
	clock      func() time.Time
	inst       *Instrumenter
}

// New establishes an authenticated session against the configured bucket.
// The configuration is sanitized and validated first, then a HeadBucket
// handshake verifies both the credentials and the bucket; a rejected
// credential surfaces as ErrAuthentication.
func New(ctx context.Context, cfg *Config, options ...Option) (*Client, error) {
	cfg = cfg.Sanitize()
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	opts := buildOptions(options...)
	logger := opts.logger

	awsCfg, credSource, err := buildAWSConfig(ctx, cfg, logger, awsconfig.LoadDefaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	logger.Debug("credential source selected", "cred_source", credSource)

	httpClient := opts.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL())
		}
		o.RetryMaxAttempts = cfg.MaxRetries
		o.RetryMode = aws.RetryModeAdaptive
		o.HTTPClient = httpClient

		// MinIO and other S3-compatible backends reject the SDK's default
		// request checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	c := &Client{
		cfg:        cfg,
		s3:         s3Client,
		presign:    s3.NewPresignClient(s3Client),
		httpClient: httpClient,
		logger:     logger,
		clock:      opts.clock,
		inst:       opts.instrumenter,
	}

	// Handshake: verify credentials and bucket access before handing the
	// session to the caller
	if _, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, mapRemoteError(err, "connect", "/")
	}

	logger.Info("bucketx session established", "bucket", cfg.Bucket, "region", cfg.Region)

	return c, nil
}

// Config returns the effective (sanitized) configuration
func (c *Client) Config() *Config {
	cp := *c.cfg
	return &cp
}

// Close releases the session. The SDK holds no server-side state, so this
// drains idle connections and is safe to call more than once.
func (c *Client) Close() error {
	c.logger.Debug("closing bucketx session", "bucket", c.cfg.Bucket)
	c.httpClient.CloseIdleConnections()
	return nil
}

// Ping verifies the session is still usable by heading the bucket
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	})
	return mapRemoteError(err, "ping", "/")
}

// PresignGet generates a presigned URL for downloading the object at path
func (c *Client) PresignGet(ctx context.Context, path string, expiry time.Duration) (string, error) {
	path = NormalizePath(path)
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", mapRemoteError(err, "presign_get", path)
	}
	return req.URL, nil
}

// PresignPut generates a presigned URL for uploading to path
func (c *Client) PresignPut(ctx context.Context, path string, expiry time.Duration) (string, error) {
	path = NormalizePath(path)
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", mapRemoteError(err, "presign_put", path)
	}
	return req.URL, nil
}

// upload materializes data through the session, switching to chunked
// multipart upload above the configured threshold. Existing objects at the
// path are overwritten.
func (c *Client) upload(ctx context.Context, op, path, contentType string, data []byte) error {
	start := c.clock()
	defer func() { c.inst.observe(op, c.clock().Sub(start)) }()

	if int64(len(data)) >= c.cfg.MultipartThreshold {
		return c.multipartUpload(ctx, op, path, contentType, data)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return mapRemoteError(err, op, path)
	}

	c.inst.observeSize(op, len(data))
	c.logger.Debug("object written", "path", path, "size", len(data))
	return nil
}

// download buffers the object at path into memory
func (c *Client) download(ctx context.Context, op, path string) ([]byte, error) {
	start := c.clock()
	defer func() { c.inst.observe(op, c.clock().Sub(start)) }()

	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	})
	if err != nil {
		return nil, mapRemoteError(err, op, path)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, &StorageError{Op: op, Path: path, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	c.inst.observeSize(op, len(data))
	c.logger.Debug("object read", "path", path, "size", len(data))
	return data, nil
}

// awsConfigLoader loads an aws.Config given LoadOptions (testable)
type awsConfigLoader func(ctx context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error)

// buildAWSConfig builds the SDK configuration using the supplied loader. It
// returns the loaded aws.Config and the detected credential source (one of:
// "static", "profile", "sdk-default", "assumed-role").
func buildAWSConfig(ctx context.Context, cfg *Config, logger Logger, loader awsConfigLoader) (aws.Config, string, error) {
	var options []func(*awsconfig.LoadOptions) error
	credSource := "unknown"

	if cfg.Region != "" {
		options = append(options, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		provider := credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			cfg.SessionToken,
		)
		options = append(options, awsconfig.WithCredentialsProvider(provider))
		credSource = "static"
	} else if cfg.Profile != "" {
		options = append(options, awsconfig.WithSharedConfigProfile(cfg.Profile))
		credSource = "profile"
	} else if !cfg.UseSDKDefaults && cfg.RoleARN == "" {
		return aws.Config{}, credSource, fmt.Errorf(
			"%w: no explicit credentials and use_sdk_defaults is false", ErrInvalidConfig)
	}

	options = append(options, awsconfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = cfg.MaxRetries
			o.MaxBackoff = cfg.BackoffMax
			o.Backoff = backoffStrategy(cfg)
		})
	}))

	awsCfg, err := loader(ctx, options...)
	if err != nil {
		return aws.Config{}, credSource, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if credSource == "unknown" {
		credSource = "sdk-default"
	}

	// RoleARN instructs the SDK to call STS:AssumeRole with the credentials
	// resolved above as the source
	if cfg.RoleARN != "" {
		logger.Debug("assuming role", "role_arn", cfg.RoleARN)

		stsClient := sts.NewFromConfig(awsCfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			if cfg.ExternalID != "" {
				o.ExternalID = &cfg.ExternalID
			}
			o.RoleSessionName = "bucketx-assume-role"
		})

		awsCfg.Credentials = aws.NewCredentialsCache(provider)
		credSource = "assumed-role"
	}

	return awsCfg, credSource, nil
}

// backoffStrategy shapes the SDK retryer's delays with exponential backoff
func backoffStrategy(cfg *Config) retry.BackoffDelayerFunc {
	return func(attempt int, err error) (time.Duration, error) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = cfg.BackoffInitial
		b.MaxInterval = cfg.BackoffMax
		b.MaxElapsedTime = 0
		b.Multiplier = 2.0
		b.RandomizationFactor = 0.1
		b.Reset()

		var delay time.Duration
		for i := 0; i < attempt; i++ {
			delay = b.NextBackOff()
			if delay == backoff.Stop {
				break
			}
		}

		return delay, nil
	}
}
