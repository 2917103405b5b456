package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/podbrief/podbrief/internal/services/backend"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			wantErr:        false,
			expectedOutput: "podcast summarization",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			wantErr:        false,
			expectedOutput: "Available Commands:",
		},
		{
			name:    "root command with invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(buf.String(), tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, buf.String())
			}
		})
	}
}

func TestBackendURLFlag(t *testing.T) {
	cmd := NewRootCmd()

	flag := cmd.PersistentFlags().Lookup("backend-url")
	if flag == nil {
		t.Fatal("Expected backend-url flag to be registered")
	}
	if flag.DefValue != "" {
		t.Errorf("Expected backend-url to default to empty, got %s", flag.DefValue)
	}
}

func TestExpectedCommandsRegistered(t *testing.T) {
	cmd := NewRootCmd()

	expected := []string{
		"login", "logout", "signup", "whoami",
		"search", "submit", "watch", "show", "resume", "history",
		"speakers", "export", "share", "subscriptions",
		"stub-server", "version",
	}

	registered := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		registered[sub.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestFriendlyError(t *testing.T) {
	err := friendlyError(&backend.APIError{StatusCode: 401, Detail: "Authentication required"})
	if !strings.Contains(err.Error(), "podbrief login") {
		t.Errorf("Expected a login hint for 401 errors, got %q", err.Error())
	}

	plain := errors.New("something else")
	if friendlyError(plain) != plain {
		t.Error("Expected non-auth errors to pass through unchanged")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "-"},
		{59, "0:59"},
		{75, "1:15"},
		{3661, "1:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
