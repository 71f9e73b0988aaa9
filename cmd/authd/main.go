// authd is the account and session authentication service: signup with
// email verification, password login, and access/refresh token issuance
// and revocation, backed by MongoDB.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oshimizu/authkit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		srvrLog.Errorf("authd: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setLogLevels(cfg.DebugLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			srvrLog.Errorf("mongo disconnect: %v", err)
		}
	}()
	srvrLog.Infof("MongoDB connected: %s", cfg.MongoDBName)

	store := authkit.NewMongoStore(client.Database(cfg.MongoDBName), slogAdapter{authLog})
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	mailer, err := authkit.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailAddress,
		cfg.SMTPSkipVerify,
		slogAdapter{authLog},
	)
	if err != nil {
		return err
	}

	tokens := authkit.NewTokenService([]byte(cfg.SigningKey), cfg.Issuer, slogAdapter{authLog})
	auth := authkit.NewAuthenticator(store, tokens, mailer, *cfg).
		WithLogger(slogAdapter{authLog})

	controller := authkit.NewAuthController(auth, slogAdapter{srvrLog})
	app := authkit.NewServer(controller, slogAdapter{srvrLog})

	errc := make(chan error, 1)
	go func() {
		srvrLog.Infof("Server started on %s", cfg.HTTPAddr)
		errc <- app.Listen(cfg.HTTPAddr)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-sigc:
		srvrLog.Infof("Received signal %v, shutting down", sig)
	}

	return app.ShutdownWithTimeout(shutdownTimeout)
}
