package trustlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker provides functionality to check if linked domains are trusted
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trustlist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	// Normalize domains (lowercase)
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trustlist checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the host is a trusted domain or a subdomain of one
func (c *Checker) IsTrusted(host string) bool {
	if host == "" || len(c.domains) == 0 {
		return false
	}
	host = strings.ToLower(host)

	for _, trusted := range c.domains {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Host is trusted",
					zap.String("host", host),
					zap.String("trusted_domain", trusted))
			}
			return true
		}
	}

	return false
}
