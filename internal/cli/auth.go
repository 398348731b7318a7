package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/hisab/internal/app"
	"github.com/mmynk/hisab/internal/view"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync this device",
		Long: `Sign in with email and password, or create an anonymous identity.

On sign-in the server copy replaces the local data. If the server has no
copy yet, the local data is uploaded.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anonymous && (email == "" || password == "") {
				return NewExitError(ExitCommandError, "--email and --password are required unless --anonymous is set")
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				var err error
				if anonymous {
					err = w.app.SignInAnonymously(cmd.Context())
				} else {
					err = w.app.SignIn(cmd.Context(), email, password)
				}
				if err != nil {
					return err
				}
				return w.printStatus(view.Dashboard{})
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "sign in without an account")
	return cmd
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:           "register",
		Short:         "Create an account and sign in",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return NewExitError(ExitCommandError, "--email and --password are required")
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := w.app.Register(cmd.Context(), email, name, password); err != nil {
					return err
				}
				return w.printStatus(view.Dashboard{})
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Sign out; local data stays on this device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := w.app.SignOut(cmd.Context()); err != nil {
					return err
				}
				return w.printStatus(nil)
			})
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show identity and sync state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				return w.printStatus(nil)
			})
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Retry the initial sync after an error",
		Long: `Re-run the start-up sync for the signed-in identity.

While a sync error is active, changes are only saved on this device.
A successful sync replaces the local data with the server copy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if _, err := w.app.Resync(cmd.Context()); err != nil {
					return err
				}
				return w.printStatus(nil)
			})
		},
	}
}

type statusOutput struct {
	State     string `json:"state"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`
	Notice    string `json:"notice,omitempty"`
}

// printStatus prints the identity and, in text mode, renders v when set.
func (w *workspace) printStatus(v view.View) error {
	st := w.app.Status()
	data := statusOutput{
		State:     st.State.String(),
		UserID:    st.UserID,
		Email:     st.Email,
		Anonymous: st.Anonymous,
		Notice:    st.Notice,
	}
	return w.out.Success(data, func(out io.Writer) error {
		if _, err := fmt.Fprintln(out, describe(st)); err != nil {
			return err
		}
		if v == nil {
			if st.Notice != "" {
				_, err := fmt.Fprintf(out, "! %s\n", st.Notice)
				return err
			}
			return nil
		}
		return w.app.Render(out, v)
	})
}

func describe(st app.Status) string {
	who := st.Email
	switch {
	case st.UserID == "":
		return fmt.Sprintf("Not signed in (%s)", st.State)
	case st.Anonymous:
		who = "anonymous " + st.UserID
	case who == "":
		who = st.UserID
	}
	return fmt.Sprintf("Signed in as %s (%s)", who, st.State)
}
