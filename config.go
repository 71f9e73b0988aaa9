package authkit

import "time"

// Config holds runtime settings for the authentication service.
//
// Fields:
//   - HTTPAddr: bind address for the public HTTP endpoint.
//   - MongoURL / MongoDBName: document store connection settings.
//   - SigningKey: HMAC secret for signing JWTs (HS256). Shared by all
//     token purposes; the purpose claim keeps them apart.
//   - Issuer: iss claim stamped into every token.
//   - BaseURL: public-facing root used to build verification links.
//   - SMTPHost / SMTPUser / SMTPPassword / MailAddress: verification
//     email transport. Leaving the host empty disables delivery and logs
//     the links instead.
//   - VerifyTokenTTL / AccessTokenTTL / RefreshTokenTTL: token lifetimes.
type Config struct {
	HTTPAddr    string
	MongoURL    string
	MongoDBName string

	SigningKey string
	Issuer     string
	BaseURL    string

	SMTPHost       string
	SMTPUser       string
	SMTPPassword   string
	MailAddress    string
	SMTPSkipVerify bool

	VerifyTokenTTL  time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DebugLevel string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SigningKey is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.MongoURL = "mongodb://127.0.0.1:27017"
	c.MongoDBName = "accounts"
	c.SigningKey = "dev-signing-key"
	c.Issuer = "authd"
	c.BaseURL = "http://localhost:8080"
	c.MailAddress = "Account Service <no-reply@localhost>"
	c.VerifyTokenTTL = 30 * 24 * time.Hour
	c.AccessTokenTTL = 15 * time.Hour
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.DebugLevel = "info"
}
