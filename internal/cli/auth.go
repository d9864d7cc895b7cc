package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waymark/pkg/session"
)

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in to create roadmaps, comment, and see your profile.

Likes made as a guest are kept. Your session is stored in
~/.config/waymark/sessions/ and shared by every waymark command.`,
		Example: `  waymark login --email okan@gmail.com --password okanacer`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.sess.LoggedIn() {
				printInfo("Already logged in as @%s", a.sess.User.Username)
				printDetail("Run '%s logout' first to switch accounts", appName)
				return nil
			}

			sess, err := spin(ctx, cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) (*session.Session, error) {
				return a.svc.Login(ctx, a.sess, email, password)
			})
			if err != nil {
				printError("Login failed")
				return err
			}

			printSuccess("Logged in as @%s", sess.User.Username)
			printNextStep("Create a roadmap", appName+" create --title ... --step ...")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget liked roadmaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.Logout(ctx, a.sess); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.sess
			if !sess.LoggedIn() {
				printInfo("Browsing as guest")
				printKeyValue("Liked", fmt.Sprintf("%d roadmaps", len(sess.Liked)))
				printNextStep("Sign in", appName+" login --email ... --password ...")
				return nil
			}

			printSuccess("Waymark Session")
			printKeyValue("Username", "@"+sess.User.Username)
			printKeyValue("User ID", sess.User.ID)
			printKeyValue("Liked", fmt.Sprintf("%d roadmaps", len(sess.Liked)))
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			printDetail("Session file: %s", a.sessions.Path())
			return nil
		},
	}
}
