package cli

import (
	"context"

	"hirelink/internal/screens"
	"hirelink/internal/types"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var in types.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and open the screen for your role",
		Long: `Log in with a username and password. Missing values are prompted for; the
password is read without echo when stdin is a terminal.

On success the session is stored locally and, after the redirect delay, the
screen for your role opens: HR users land on /hr, candidates on /candidate,
anyone else on /dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err := p.TextDefault(&in.Username, "Username"); err != nil {
				return err
			}
			if in.Password == "" {
				pw, err := p.Password("Password")
				if err != nil {
					return err
				}
				in.Password = pw
			}
			return runScreen(cmd, "login", func(ctx context.Context, app *screens.App) (*screens.LoginView, error) {
				return app.Login(ctx, in)
			})
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSignupCmd() *cobra.Command {
	var (
		in   types.SignupInput
		role string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Long: `Register a new account. Every field is required; missing ones are prompted
for. The role defaults to candidate. Registration never logs you in: the login
screen opens afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err := p.Fill(signupFields(&in)...); err != nil {
				return err
			}
			if in.Password == "" {
				pw, err := p.Password("Password")
				if err != nil {
					return err
				}
				in.Password = pw
			}
			in.Role = types.Role(role)
			return runScreen(cmd, "signup", func(ctx context.Context, app *screens.App) (*screens.SignupView, error) {
				return app.Signup(ctx, in)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Full name")
	f.StringVarP(&in.Username, "username", "u", "", "Username")
	f.StringVar(&in.Email, "email", "", "Email address")
	f.StringVar(&in.PhoneNo, "phone", "", "Phone number")
	f.StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	f.StringVar(&role, "role", string(types.RoleCandidate), "Account role: candidate or hr")
	_ = cmd.RegisterFlagCompletionFunc("role", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.RoleCandidate), string(types.RoleHR)}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newLogoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		Long: `Open the logout screen. When a session is stored you are asked to confirm;
confirming clears the credential and the profile and returns to the home
screen, declining leaves everything as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			confirm := func(context.Context) (bool, error) {
				if yes {
					return true, nil
				}
				return p.Confirm("Are you sure you want to log out?")
			}
			return runScreen(cmd, "logout", func(ctx context.Context, app *screens.App) (*screens.LogoutView, error) {
				return app.Logout(ctx, confirm)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Log out without asking")
	return cmd
}
