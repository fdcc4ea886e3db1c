// Package config loads runtime settings from defaults, the environment and
// an optional YAML file. File values take precedence over the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"gopkg.in/yaml.v3"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

// Environment variables read by Load
const (
	EnvLandingAIKey      = "LANDINGAI_API_KEY"
	EnvLandingAIEndpoint = "LANDINGAI_ENDPOINT"
	EnvScratchDir        = "YUSUR_SCRATCH_DIR"
	EnvChunkSize         = "YUSUR_CHUNK_SIZE"
	EnvPacing            = "YUSUR_PACING"
	EnvS3Bucket          = "YUSUR_S3_BUCKET"
	EnvS3Prefix          = "YUSUR_S3_PREFIX"
	EnvAWSRegion         = "AWS_REGION"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvOpenAIKey         = "OPENAI_API_KEY"
)

type Retry struct {
	Attempts       int           `yaml:"attempts"`
	Delay          time.Duration `yaml:"delay"`
	RateLimitDelay time.Duration `yaml:"rate_limit_delay"`
}

type Config struct {
	LandingAIKey      string        `yaml:"landingai_api_key"`
	LandingAIEndpoint string        `yaml:"landingai_endpoint"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	Retry             Retry         `yaml:"retry"`

	ScratchDir string        `yaml:"scratch_dir"`
	ChunkSize  int           `yaml:"chunk_size"`
	Pacing     time.Duration `yaml:"pacing"`

	S3Bucket  string `yaml:"s3_bucket"`
	S3Prefix  string `yaml:"s3_prefix"`
	AWSRegion string `yaml:"aws_region"`

	DatabaseURL string `yaml:"database_url"`
	OpenAIKey   string `yaml:"openai_api_key"`
}

// Default returns the settings used when nothing overrides them
func Default() *Config {
	policy := extraction.DefaultRetryPolicy()
	return &Config{
		RequestTimeout: 60 * time.Second,
		Retry: Retry{
			Attempts:       policy.Attempts,
			Delay:          policy.Delay,
			RateLimitDelay: policy.RateLimitDelay,
		},
		ScratchDir: "pdf_chunks",
		ChunkSize:  pdf.DefaultChunkSize,
		Pacing:     2 * time.Second,
	}
}

// Load builds a Config from defaults, then the environment, then the YAML
// file at path when path is not empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvLandingAIKey, &c.LandingAIKey)
	str(EnvLandingAIEndpoint, &c.LandingAIEndpoint)
	str(EnvScratchDir, &c.ScratchDir)
	str(EnvS3Bucket, &c.S3Bucket)
	str(EnvS3Prefix, &c.S3Prefix)
	str(EnvAWSRegion, &c.AWSRegion)
	str(EnvDatabaseURL, &c.DatabaseURL)
	str(EnvOpenAIKey, &c.OpenAIKey)

	if v, ok := lookup(EnvChunkSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvChunkSize, err)
		}
		c.ChunkSize = n
	}

	if v, ok := lookup(EnvPacing); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPacing, err)
		}
		c.Pacing = d
	}

	return nil
}

// Validate rejects values the pipeline cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.Pacing < 0 {
		errs = append(errs, fmt.Errorf("pacing must not be negative, got %s", c.Pacing))
	}
	if c.Retry.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("retry.attempts must be positive, got %d", c.Retry.Attempts))
	}
	if c.Retry.Delay < 0 || c.Retry.RateLimitDelay < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RetryPolicy returns the extraction retry policy described by c
func (c *Config) RetryPolicy() extraction.RetryPolicy {
	return extraction.RetryPolicy{
		Attempts:       c.Retry.Attempts,
		Delay:          c.Retry.Delay,
		RateLimitDelay: c.Retry.RateLimitDelay,
	}
}

// AWS loads the shared AWS configuration, pinned to AWSRegion when set
func (c *Config) AWS(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(c.AWSRegion))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("config: load aws config: %w", err)
	}
	return cfg, nil
}
