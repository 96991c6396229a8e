package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/forms"
	"github.com/KuzscoTech/maas-management/internal/platform"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the platform session",
	Long: `Manage the authenticated session with the MAAS platform.

The auth command provides subcommands for registering, logging in, logging
out, and checking the current session. Tokens are persisted in the storage
directory (default ~/.maas) and refreshed automatically while you work.

Subcommands:
  register  Register a new user account
  login     Login with email and password
  logout    End the session and remove stored tokens
  status    Show the current session

Examples:
  maas auth login --email user@example.com
  maas auth status
  maas auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd starts a session
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the platform",
	Long: `Login to the MAAS platform with your email and password.

Credentials can be passed as flags; anything missing is prompted for
interactively. On success the session tokens are stored locally and kept
fresh until you log out.

Examples:
  maas auth login
  maas auth login --email user@example.com --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		input := forms.LoginInput{Email: email, Password: password}
		if input.Email == "" || input.Password == "" {
			if err := promptLogin(&input); err != nil {
				return err
			}
		}
		if err := forms.ValidateLogin(input); err != nil {
			return err
		}

		a, err := getApp()
		if err != nil {
			return err
		}

		if err := a.mgr.Login(cmd.Context(), input.Email, input.Password); err != nil {
			return fmt.Errorf("login failed: %s", a.mgr.LastError())
		}

		user := a.mgr.CurrentUser()
		fmt.Println("Login successful!")
		if user != nil {
			fmt.Printf("Logged in as %s", user.Email)
			if user.FullName != "" {
				fmt.Printf(" (%s)", user.FullName)
			}
			fmt.Println()
		}

		return nil
	},
}

// authRegisterCmd creates a new account
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user account",
	Long: `Register a new user account with the MAAS platform.

Registration does not log you in: run 'maas auth login' afterwards.

Examples:
  maas auth register
  maas auth register --email user@example.com --full-name "Jane Doe"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		fullName, _ := cmd.Flags().GetString("full-name")
		orgName, _ := cmd.Flags().GetString("organization")

		input := forms.RegisterInput{
			Email:            email,
			Password:         password,
			ConfirmPassword:  password,
			FullName:         fullName,
			OrganizationName: orgName,
		}
		if input.Email == "" || input.Password == "" || input.FullName == "" {
			if err := promptRegister(&input); err != nil {
				return err
			}
		}
		if err := forms.ValidateRegister(input); err != nil {
			return err
		}

		a, err := getApp()
		if err != nil {
			return err
		}

		req := platform.RegisterRequest{
			Email:            input.Email,
			Password:         input.Password,
			ConfirmPassword:  input.ConfirmPassword,
			FullName:         input.FullName,
			OrganizationName: input.OrganizationName,
		}
		if err := a.mgr.Register(cmd.Context(), req); err != nil {
			return fmt.Errorf("registration failed: %s", a.mgr.LastError())
		}

		fmt.Println("Registration successful!")
		fmt.Printf("Email: %s\n", input.Email)
		fmt.Println("Run 'maas auth login' to start a session.")

		return nil
	},
}

// authLogoutCmd ends the session
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and remove stored tokens",
	Long: `End the current session.

The platform is notified and the locally stored tokens are removed. Logging
out when no session exists is not an error.

Examples:
  maas auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}

		wasAuthenticated := a.mgr.IsAuthenticated()
		a.mgr.Logout(cmd.Context())

		if wasAuthenticated {
			fmt.Println("Logged out.")
		} else {
			fmt.Println("No active session.")
		}
		return nil
	},
}

// authStatusCmd shows the current session
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `Show the current session and user information.

A persisted session is validated against the platform; an expired access
token is refreshed transparently when possible.

Examples:
  maas auth status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}

		a.mgr.InitializeAuth(cmd.Context())

		if !a.mgr.IsAuthenticated() {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'maas auth login' to authenticate.")
			return nil
		}

		user := a.mgr.CurrentUser()
		fmt.Println("Logged in")
		if user != nil {
			fmt.Printf("User ID: %s\n", user.ID)
			fmt.Printf("Email:   %s\n", user.Email)
			if user.FullName != "" {
				fmt.Printf("Name:    %s\n", user.FullName)
			}
			for _, org := range user.Organizations {
				fmt.Printf("Org:     %s (%s)\n", org.Name, org.Role)
			}
		}
		fmt.Printf("State:   %s\n", a.mgr.State())

		return nil
	},
}

// promptLogin fills missing login fields interactively
func promptLogin(input *forms.LoginInput) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&input.Email).
				Validate(func(s string) error {
					if msg := forms.ValidateField(forms.LoginInput{Email: s}, "Email"); msg != "" {
						return fmt.Errorf("%s", msg)
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&input.Password).
				Validate(func(s string) error {
					if msg := forms.ValidateField(forms.LoginInput{Email: "a@b.c", Password: s}, "Password"); msg != "" {
						return fmt.Errorf("%s", msg)
					}
					return nil
				}),
		),
	)
	return form.Run()
}

// promptRegister fills missing registration fields interactively
func promptRegister(input *forms.RegisterInput) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&input.Email),
			huh.NewInput().
				Title("Full name").
				Value(&input.FullName),
			huh.NewInput().
				Title("Organization (optional)").
				Value(&input.OrganizationName),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&input.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&input.ConfirmPassword),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	// Cross-field checks run after the form so mismatched passwords are
	// reported with the same message the validator uses.
	return forms.ValidateRegister(*input)
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("email", "", "Email address")
	authLoginCmd.Flags().String("password", "", "Password")

	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password")
	authRegisterCmd.Flags().String("full-name", "", "Full name")
	authRegisterCmd.Flags().String("organization", "", "Organization name")

	rootCmd.AddCommand(authCmd)
}
