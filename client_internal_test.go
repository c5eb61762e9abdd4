package bucketx

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader records the load options it received and returns a fixed config
func stubLoader(captured *[]func(*awsconfig.LoadOptions) error) awsConfigLoader {
	return func(ctx context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		*captured = opts
		return aws.Config{Region: "stub"}, nil
	}
}

func TestBuildAWSConfigCredSource(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *Config
		wantSource string
		wantErr    bool
	}{
		{
			"static credentials",
			&Config{Region: "us-east-1", AccessKey: "AKIA", SecretKey: "secret"},
			"static",
			false,
		},
		{
			"shared profile",
			&Config{Region: "us-east-1", Profile: "staging"},
			"profile",
			false,
		},
		{
			"sdk default chain",
			&Config{Region: "us-east-1", UseSDKDefaults: true},
			"sdk-default",
			false,
		},
		{
			"assumed role over static",
			&Config{
				Region:    "us-east-1",
				AccessKey: "AKIA",
				SecretKey: "secret",
				RoleARN:   "arn:aws:iam::123456789012:role/TestRole",
			},
			"assumed-role",
			false,
		},
		{
			"no credential source",
			&Config{Region: "us-east-1"},
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured []func(*awsconfig.LoadOptions) error
			_, source, err := buildAWSConfig(context.Background(), tt.cfg, NewNopLogger(), stubLoader(&captured))

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, source)
			assert.NotEmpty(t, captured, "loader should receive options")
		})
	}
}

func TestBuildAWSConfigAssumedRoleReplacesCredentials(t *testing.T) {
	var captured []func(*awsconfig.LoadOptions) error
	cfg := &Config{
		Region:    "us-east-1",
		AccessKey: "AKIA",
		SecretKey: "secret",
		RoleARN:   "arn:aws:iam::123456789012:role/TestRole",
	}

	awsCfg, _, err := buildAWSConfig(context.Background(), cfg, NewNopLogger(), stubLoader(&captured))
	require.NoError(t, err)
	assert.NotNil(t, awsCfg.Credentials, "assumed role should install a credentials cache")
}

func TestBackoffStrategyGrows(t *testing.T) {
	cfg := DefaultConfig()
	delayer := backoffStrategy(cfg)

	first, err := delayer(1, nil)
	require.NoError(t, err)
	third, err := delayer(3, nil)
	require.NoError(t, err)

	assert.Greater(t, first, time.Duration(0))
	assert.Greater(t, third, first)
	assert.LessOrEqual(t, third, cfg.BackoffMax+cfg.BackoffMax/2)
}
