package landingai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
)

// DefaultEndpoint is the agentic document analysis tool
const DefaultEndpoint = "https://api.va.landing.ai/v1/tools/agentic-document-analysis"

// Options contains configuration for the LandingAI client
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	Retry      extraction.RetryPolicy
	HTTPClient *http.Client
	Logger     *slog.Logger
	Sleep      extraction.Sleeper
}

// Option is a function type to modify Options
type Option func(*Options)

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		Endpoint: DefaultEndpoint,
		Timeout:  60 * time.Second,
		Retry:    extraction.DefaultRetryPolicy(),
		Logger:   slog.Default().With("component", "landingai"),
		Sleep:    extraction.Sleep,
	}
}

// WithEndpoint overrides the analysis endpoint URL
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.Endpoint = endpoint
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithRetryPolicy sets the attempt budget and backoff table
func WithRetryPolicy(policy extraction.RetryPolicy) Option {
	return func(o *Options) {
		o.Retry = policy
	}
}

// WithHTTPClient sets the HTTP client. Its Timeout wins over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSleeper replaces the function used to wait between attempts
func WithSleeper(sleep extraction.Sleeper) Option {
	return func(o *Options) {
		o.Sleep = sleep
	}
}
