package main

import (
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/oshimizu/authkit"
)

// opts are the command-line flags, each with an environment fallback.
type opts struct {
	Listen      string `long:"listen" env:"AUTHD_LISTEN" description:"HTTP listen address"`
	MongoURL    string `long:"mongourl" env:"AUTHD_MONGO_URL" description:"MongoDB connection URL"`
	MongoDBName string `long:"mongodb" env:"AUTHD_MONGO_DB" description:"MongoDB database name"`

	SigningKey string `long:"signingkey" env:"AUTHD_SIGNING_KEY" description:"HMAC secret used to sign tokens"`
	Issuer     string `long:"issuer" env:"AUTHD_ISSUER" description:"Issuer claim stamped into tokens"`
	BaseURL    string `long:"baseurl" env:"AUTHD_BASE_URL" description:"Public root URL used in verification links"`

	SMTPHost       string `long:"smtphost" env:"AUTHD_SMTP_HOST" description:"SMTP host:port; empty disables mail delivery"`
	SMTPUser       string `long:"smtpuser" env:"AUTHD_SMTP_USER" description:"SMTP username"`
	SMTPPassword   string `long:"smtppass" env:"AUTHD_SMTP_PASS" description:"SMTP password"`
	MailAddress    string `long:"mailaddress" env:"AUTHD_MAIL_ADDRESS" description:"From address for outgoing mail"`
	SMTPSkipVerify bool   `long:"smtpskipverify" env:"AUTHD_SMTP_SKIP_VERIFY" description:"Skip SMTP TLS certificate verification"`

	VerifyTokenTTL  time.Duration `long:"verifyttl" env:"AUTHD_VERIFY_TTL" description:"Verification token lifetime"`
	AccessTokenTTL  time.Duration `long:"accessttl" env:"AUTHD_ACCESS_TTL" description:"Access token lifetime"`
	RefreshTokenTTL time.Duration `long:"refreshttl" env:"AUTHD_REFRESH_TTL" description:"Refresh token lifetime"`

	DebugLevel string `short:"d" long:"debuglevel" env:"AUTHD_DEBUG_LEVEL" description:"Logging level {trace, debug, info, warn, error, critical}"`
}

// loadConfig applies defaults and overlays any flag or environment
// values that were set.
func loadConfig() (*authkit.Config, error) {
	cfg := &authkit.Config{}
	cfg.LoadDefaults()

	var o opts
	if _, err := flags.Parse(&o); err != nil {
		return nil, err
	}

	if o.Listen != "" {
		cfg.HTTPAddr = o.Listen
	}
	if o.MongoURL != "" {
		cfg.MongoURL = o.MongoURL
	}
	if o.MongoDBName != "" {
		cfg.MongoDBName = o.MongoDBName
	}
	if o.SigningKey != "" {
		cfg.SigningKey = o.SigningKey
	}
	if o.Issuer != "" {
		cfg.Issuer = o.Issuer
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.SMTPHost != "" {
		cfg.SMTPHost = o.SMTPHost
	}
	if o.SMTPUser != "" {
		cfg.SMTPUser = o.SMTPUser
	}
	if o.SMTPPassword != "" {
		cfg.SMTPPassword = o.SMTPPassword
	}
	if o.MailAddress != "" {
		cfg.MailAddress = o.MailAddress
	}
	if o.SMTPSkipVerify {
		cfg.SMTPSkipVerify = true
	}
	if o.VerifyTokenTTL > 0 {
		cfg.VerifyTokenTTL = o.VerifyTokenTTL
	}
	if o.AccessTokenTTL > 0 {
		cfg.AccessTokenTTL = o.AccessTokenTTL
	}
	if o.RefreshTokenTTL > 0 {
		cfg.RefreshTokenTTL = o.RefreshTokenTTL
	}
	if o.DebugLevel != "" {
		cfg.DebugLevel = o.DebugLevel
	}

	return cfg, nil
}
