package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig holds the response headers applied to every
// request. This service exposes only unauthenticated JSON endpoints
// (§1 Non-goals exclude auth entirely), so the config is trimmed to
// the subset an API surface like this actually benefits from — no
// per-environment variants, no webhook/CSP profiles the teacher's
// broader HTTP surface needed.
type SecurityHeadersConfig struct {
	FrameOptions       string
	ReferrerPolicy     string
	ContentTypeOptions string
}

// APISecurityHeadersConfig returns the headers this JSON-only API
// applies by default.
func APISecurityHeadersConfig() *SecurityHeadersConfig {
	return &SecurityHeadersConfig{
		FrameOptions:       "DENY",
		ReferrerPolicy:     "no-referrer",
		ContentTypeOptions: "nosniff",
	}
}

// SecurityHeaders adds the configured headers to every response.
func SecurityHeaders(config *SecurityHeadersConfig) gin.HandlerFunc {
	if config == nil {
		config = APISecurityHeadersConfig()
	}

	return func(c *gin.Context) {
		if config.FrameOptions != "" {
			c.Header("X-Frame-Options", config.FrameOptions)
		}
		if config.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", config.ReferrerPolicy)
		}
		if config.ContentTypeOptions != "" {
			c.Header("X-Content-Type-Options", config.ContentTypeOptions)
		}
		c.Next()
	}
}
