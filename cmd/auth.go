package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Register and sign in to a study API server",
}

// authClient builds an HTTP client for the configured server. Accounts
// only exist on a server, so the local backend setting is ignored.
func authClient(cmd *cobra.Command) (*api.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(os.Stderr, "warn")
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Client.APIURL,
		api.WithUserID(cfg.Client.UserID),
		api.WithToken(cfg.Client.Token),
		api.WithTimeout(cfg.Client.Timeout.Duration),
		api.WithLogger(log),
	), nil
}

// password returns --password or prompts for it without echo.
func password(cmd *cobra.Command) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

var authRegisterCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authClient(cmd)
		if err != nil {
			return err
		}
		pw, err := password(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if err := c.Register(cmd.Context(), api.RegisterRequest{Email: args[0], Password: pw, Name: name}); err != nil {
			return fmt.Errorf("register: %s", api.Message(err))
		}
		fmt.Println("Account created. Sign in with: studybuddy auth login", args[0])
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and print an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authClient(cmd)
		if err != nil {
			return err
		}
		pw, err := password(cmd)
		if err != nil {
			return err
		}
		resp, err := c.Login(cmd.Context(), api.LoginRequest{Email: args[0], Password: pw})
		if err != nil {
			return fmt.Errorf("login: %s", api.Message(err))
		}

		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			fmt.Println(resp.AccessToken)
			return nil
		}
		fmt.Printf("Signed in as %s (%s)\n\n", resp.User.Name, resp.User.Email)
		fmt.Println("Save the token as client.token in your config file or export it:")
		fmt.Printf("  export STUDYBUDDY_TOKEN=%s\n", resp.AccessToken)
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the configured token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authClient(cmd)
		if err != nil {
			return err
		}
		acct, err := c.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("whoami: %s", api.Message(err))
		}
		fmt.Printf("ID:     %s\n", acct.ID)
		fmt.Printf("Email:  %s\n", acct.Email)
		fmt.Printf("Name:   %s\n", acct.Name)
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	authRegisterCmd.Flags().String("name", "", "Display name")
	authLoginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	authLoginCmd.Flags().BoolP("quiet", "q", false, "Print only the token")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authWhoamiCmd)
}
