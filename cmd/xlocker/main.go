// Package main locks the X display until the invoking user's password is
// typed: it resolves the user's password hash, drops privileges, grabs
// keyboard and pointer, and exits with status 0 once the password matches.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/xlocker/internal/config"
	"github.com/atinyakov/xlocker/internal/crypt"
	"github.com/atinyakov/xlocker/internal/locker"
	"github.com/atinyakov/xlocker/internal/logger"
	"github.com/atinyakov/xlocker/internal/privilege"
	"github.com/atinyakov/xlocker/internal/repository"
	"github.com/atinyakov/xlocker/internal/service"
	"github.com/atinyakov/xlocker/internal/x11"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const waylandWarning = "WARNING: Wayland X server detected: xlocker cannot intercept all user input."

func main() {
	// Parse command-line, config file and environment configuration. While
	// setuid or setgid, no caller-chosen file is read.
	options, err := config.Parse(privilege.Elevated())
	if err != nil {
		fatal(err)
	}
	if options.ShowVersion {
		fmt.Printf("xlocker\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fatal(err)
	}
	zapLogger := log.Log.With(zap.String("session", uuid.NewString()))

	for _, setting := range options.Ignored {
		zapLogger.Warn("setting ignored while running with elevated privileges", zap.String("setting", setting))
	}

	if options.Wayland() {
		fmt.Fprintln(os.Stderr, waylandWarning)
	}

	// Resolve the password hash while any setuid/setgid privilege is still
	// held, then give it up.
	authRepo := repository.NewShadowAuthRepository(options.ShadowPath)
	authService := service.NewAuthService(authRepo)
	account, err := authService.Account(context.Background(), os.Getuid())
	if err != nil {
		fatal(err)
	}
	if err := privilege.Drop(); err != nil {
		fatal(err)
	}
	hash, err := crypt.Parse(account.PasswordHash)
	if err != nil {
		fatal(err)
	}
	account.PasswordHash = ""
	zapLogger.Debug("credential resolved", zap.String("user", account.Login), zap.Stringer("hash", hash))

	// Open the display and take over its input.
	display, err := x11.Open(x11.Options{
		Name:     options.Display,
		CursorFG: options.CursorFG,
		CursorBG: options.CursorBG,
		Logger:   zapLogger,
	})
	if err != nil {
		fatal(err)
	}

	session, err := locker.NewSession(display, hash, locker.WithLogger(zapLogger))
	if err != nil {
		_ = display.Close()
		fatal(err)
	}
	if err := session.Acquire(); err != nil {
		_ = display.Close()
		fatal(err)
	}
	zapLogger.Info("session locked", zap.String("user", account.Login))

	if err := session.Authenticate(); err != nil {
		fatal(err)
	}
	zapLogger.Info("session unlocked", zap.Int("failures", session.Failures()))

	if err := display.Close(); err != nil {
		zapLogger.Debug("close display", zap.Error(err))
	}
}

// fatal reports err on stderr and exits with status 1.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, diagnostic(err))
	os.Exit(1)
}

func diagnostic(err error) string {
	return fmt.Sprintf("xlocker (version %s): %v", cmp.Or(version, "N/A"), err)
}
