package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
)

var (
	loginEmail    string
	loginPassword string
	signupName    string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in with your email and password. The session token is stored in
your home directory and attached to every subsequent request.

Example:
  podbrief login --email you@example.com --password secret
  podbrief login --email you@example.com       (prompts for password)`,
	RunE: runLogin,
}

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE:  runSignup,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")

	signupCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupName, "name", "", "display name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	email, password, err := credentials()
	if err != nil {
		return err
	}

	auth, err := app.client.Login(cmd.Context(), models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	if err := app.session.SetAuth(auth); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", auth.User.Email)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	email, password, err := credentials()
	if err != nil {
		return err
	}

	auth, err := app.client.Signup(cmd.Context(), models.SignupRequest{
		Email:    email,
		Password: password,
		Name:     signupName,
	})
	if err != nil {
		return err
	}
	if err := app.session.SetAuth(auth); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", auth.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}
	if err := app.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	user := app.session.User()
	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
	return nil
}

// credentials resolves email/password from flags, prompting for anything
// missing.
func credentials() (string, string, error) {
	email := strings.TrimSpace(loginEmail)
	password := loginPassword
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password are required")
	}
	return email, password, nil
}
