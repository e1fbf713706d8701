package httpapi

import "time"

// DefaultMaxBodyBytes bounds JSON request bodies when Options leaves it unset.
const DefaultMaxBodyBytes int64 = 64 << 10

// Options tunes the HTTP layer. Zero values select the defaults.
type Options struct {
	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64
	// RequestTimeout bounds how long a handler waits on the UI loop.
	// Zero leaves only the server and connection timeouts.
	RequestTimeout time.Duration
	CORS           CORSOptions
}

// CORSOptions configures the opt-in CORS middleware.
type CORSOptions struct {
	Enabled bool
	Origins []string
	Methods []string
	Headers []string
}

var current = Options{MaxBodyBytes: DefaultMaxBodyBytes}

// Configure replaces the HTTP layer options. It must be called before
// NewMux; muxes already built keep their CORS setting.
func Configure(o Options) {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.RequestTimeout < 0 {
		o.RequestTimeout = 0
	}
	if len(o.CORS.Methods) == 0 {
		o.CORS.Methods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(o.CORS.Headers) == 0 {
		o.CORS.Headers = []string{"Content-Type", "X-Log-Level"}
	}
	o.CORS.Origins = append([]string(nil), o.CORS.Origins...)
	current = o
}

// CurrentOptions returns the options in effect.
func CurrentOptions() Options { return current }
