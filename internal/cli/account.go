package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/services/auth"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.AuthService.Login(cmd.Context(), user, pass)
			if err != nil {
				return err
			}
			output(cmd).Print(session)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

// registerFlags binds the flags shared by register and admin register
func registerFlags(cmd *cobra.Command, in *auth.RegisterInput) {
	cmd.Flags().StringVar(&in.Username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&in.Password, "pass", "", "Password, at least 6 characters (required)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "Password again (required)")
}

func printRegistration(cmd *cobra.Command, result *auth.RegisterResult) {
	out := output(cmd)
	if result.Session != nil {
		out.Print(result.Session)
		return
	}
	out.Print(&result.User)
	if result.Message != "" {
		out.PrintMessage(result.Message)
	}
}

func newRegisterCmd() *cobra.Command {
	var in auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.AuthService.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			printRegistration(cmd, result)
			return nil
		},
	}
	registerFlags(cmd, &in)

	return cmd
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
	}

	var in auth.RegisterInput
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an administrator account with the admin key",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.AuthService.RegisterAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			printRegistration(cmd, result)
			return nil
		},
	}
	registerFlags(register, &in)
	register.Flags().StringVar(&in.AdminKey, "key", "", "Admin key (required)")

	cmd.AddCommand(register)
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.AuthService.Logout(cmd.Context()); err != nil {
				return err
			}
			output(cmd).PrintMessage("Đã đăng xuất")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.AuthService.Current()
			if check && session != nil {
				var err error
				session, err = app.AuthService.CheckAuth(cmd.Context())
				if err != nil {
					return err
				}
			}
			output(cmd).Print(session)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Verify the token with the backend")
	return cmd
}

func newPasswordCmd() *cobra.Command {
	var current, next, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.AuthService.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			output(cmd).PrintMessage("Đổi mật khẩu thành công")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password (required)")
	cmd.Flags().StringVar(&next, "new", "", "New password (required)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "New password again (required)")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var email, avatar string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update email or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update auth.ProfileUpdate
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("avatar") {
				update.SelectedAvatarID = &avatar
			}

			user, err := app.AuthService.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			output(cmd).Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar id")
	return cmd
}
