package command

import (
	"fmt"
	"time"

	"softwire/cmd/cli/authentication"
	"softwire/cmd/cli/command/client"
	"softwire/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// auth.go handles register, login, e-mail verification, whoami and logout.

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the SoftWire API server. Supports registration, e-mail verification, login and logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.FirstName, _ = cmd.Flags().GetString("first-name")
		req.LastName, _ = cmd.Flags().GetString("last-name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := client.NewHTTPClient(apiURL).Register(&req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		if resp.EmailSent {
			color.Green("✓ %s", resp.Message)
		} else {
			color.Yellow("! %s", resp.Message)
		}
		return nil
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email <token>",
	Short: "Confirm an e-mail address with the token from the verification link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.NewHTTPClient(apiURL).VerifyEmail(args[0])
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		color.Green("✓ %s", resp.Message)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.RememberMe, _ = cmd.Flags().GetBool("remember-me")

		resp, err := client.NewHTTPClient(apiURL).Login(&req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		err = authentication.StoreTokens(&authentication.StoredCredentials{
			Token:     resp.Token,
			Email:     resp.User.Email,
			FirstName: resp.User.FirstName,
			APIURL:    apiURL,
		})
		if err != nil {
			return fmt.Errorf("could not store session token: %w", err)
		}

		color.Green("✓ Welcome back, %s!", resp.User.FirstName)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		c := client.NewHTTPClient(apiURL)
		c.SetToken(creds.Token)
		info, err := c.Verify()
		if err != nil {
			return fmt.Errorf("session rejected: %w", err)
		}

		fmt.Printf("%s %s <%s>\n", info.FirstName, info.LastName, info.Email)
		fmt.Printf("Session expires: %s\n", time.Unix(info.ExpiresAt, 0).Format(time.RFC1123))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		color.Green("✓ Successfully logged out.")
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd, verifyEmailCmd, loginCmd, whoamiCmd, logoutCmd)

	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password, at least 8 characters")
	registerCmd.MarkFlagRequired("first-name")
	registerCmd.MarkFlagRequired("last-name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().BoolP("remember-me", "r", false, "Ask for a 30 day session")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
