package llm

// defaultMaxRetries is the number of automatic retries on transient errors
// (429 rate-limit, 5xx server errors). The SDKs handle exponential backoff.
const defaultMaxRetries = 3

// Option configures a provider.
type Option func(*providerConfig)

type providerConfig struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
}

func newProviderConfig(defaultModel string, opts []Option) providerConfig {
	cfg := providerConfig{
		model:      defaultModel,
		maxRetries: defaultMaxRetries,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithAPIKey sets the API key. If not provided, the provider reads its key
// from the environment.
func WithAPIKey(key string) Option {
	return func(c *providerConfig) {
		c.apiKey = key
	}
}

// WithModel overrides the default model for all requests. Empty values are
// ignored.
func WithModel(model string) Option {
	return func(c *providerConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the provider at a different API endpoint, e.g. a proxy
// or a test server.
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		c.baseURL = url
	}
}

// WithMaxRetries sets the maximum number of retries for transient errors.
func WithMaxRetries(n int) Option {
	return func(c *providerConfig) {
		c.maxRetries = n
	}
}
