package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/services/backend"
	"github.com/podbrief/podbrief/internal/services/session"
	"github.com/podbrief/podbrief/pkg/config"
)

// appContext bundles the wired services a command needs.
type appContext struct {
	cfg     *config.Config
	session *session.Service
	client  *backend.Client
}

// newAppContext wires config, session, and the backend client.
func newAppContext(cmd *cobra.Command) (*appContext, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if override, _ := cmd.Flags().GetString("backend-url"); override != "" {
		cfg.Backend.BaseURL = override
	}

	sess := session.NewService(session.NewFileStore(cfg.Session.Path))

	client := backend.NewClient(backend.Config{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Backend.Timeout,
		MaxRetries:        cfg.Backend.RetryAttempts,
		RetryBackoff:      cfg.Backend.RetryBackoff,
		RequestsPerMinute: cfg.Backend.RateLimit,
		BurstSize:         cfg.Backend.Burst,
		UserAgent:         cfg.Backend.UserAgent,
		Tokens:            sess,
	})

	return &appContext{cfg: cfg, session: sess, client: client}, nil
}

// friendlyError maps API sentinel errors onto actionable CLI messages,
// the terminal analogue of the web client's login redirect.
func friendlyError(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return errors.New("not signed in or session expired - run 'podbrief login' first")
	}
	return err
}

// newTable creates a go-pretty table writing to stdout in the house style.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

// formatDuration renders seconds as h:mm:ss or m:ss.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// deref returns the string behind an optional field, or a dash.
func deref(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
