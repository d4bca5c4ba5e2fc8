package config

import (
	"fmt"
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %s)", c.Auth.SessionTTL)
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres (got %q)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if err := c.Transcriber.validate(); err != nil {
		return fmt.Errorf("transcriber: %w", err)
	}

	if c.Server.UploadTimeout < 0 {
		return fmt.Errorf("server.upload_timeout must be >= 0 (got %s)", c.Server.UploadTimeout)
	}
	// A remote call must be able to finish before the write deadline.
	if wt, rt := c.Server.WriteTimeout, c.Transcriber.RequestTimeout; wt > 0 && rt > 0 && rt >= wt {
		return fmt.Errorf("transcriber.request_timeout (%s) must be below server.write_timeout (%s)", rt, wt)
	}

	if c.Generation.OutlineDelay < 0 || c.Generation.ArticleDelay < 0 {
		return fmt.Errorf("generation delays must be >= 0")
	}

	return nil
}

func (t *TranscriberConfig) validate() error {
	u, err := url.Parse(t.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", t.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host (got %q)", t.BaseURL)
	}
	if t.UploadTimeout <= 0 {
		return fmt.Errorf("upload_timeout must be > 0 (got %s)", t.UploadTimeout)
	}
	if t.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be >= 0 (got %s)", t.RequestTimeout)
	}
	return nil
}
