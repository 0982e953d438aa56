package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the access token for later commands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		login(cmd)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		register(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		env := mustEnvironment()
		if err := env.client.Logout(); err != nil {
			env.logger.Fatal("clearing the session", zap.Error(err))
		}
		env.logger.Info("logged out", zap.String("session_file", env.store.Path()))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user and when the session expires",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		whoami()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringP("email", "e", "", "account email")
		c.Flags().String("password-file", "", "read the password from this file instead of asking for it")
	}
	registerCmd.Flags().StringP("name", "n", "", "display name")
}

func login(cmd *cobra.Command) {
	env := mustEnvironment()

	email, err := readEmail(flagString(cmd, "email"))
	if err != nil {
		env.logger.Fatal("reading the email", zap.Error(err))
	}

	password, err := readPassword("Password", flagString(cmd, "password-file"))
	if err != nil {
		env.logger.Fatal("reading the password", zap.Error(err))
	}

	resp, err := env.client.Login(cmd.Context(), email, password)
	if err != nil {
		env.fatal("logging in", err)
	}

	logUser(env.logger, "logged in", resp.User)
}

func register(cmd *cobra.Command) {
	env := mustEnvironment()

	email, err := readEmail(flagString(cmd, "email"))
	if err != nil {
		env.logger.Fatal("reading the email", zap.Error(err))
	}

	name, err := readLine("Name", flagString(cmd, "name"))
	if err != nil {
		env.logger.Fatal("reading the name", zap.Error(err))
	}

	passwordFile := flagString(cmd, "password-file")
	password, err := readPassword("Password", passwordFile)
	if err != nil {
		env.logger.Fatal("reading the password", zap.Error(err))
	}

	if passwordFile == "" && interactive() {
		repeated, err := readPassword("Repeat password", "")
		if err != nil {
			env.logger.Fatal("reading the password", zap.Error(err))
		}
		if repeated != password {
			env.logger.Fatal("passwords do not match")
		}
	}

	resp, err := env.client.Register(cmd.Context(), email, password, name)
	if err != nil {
		env.fatal("registering", err)
	}

	logUser(env.logger, "registered", resp.User)
}

func whoami() {
	env := mustEnvironment()
	env.requireLogin()

	fields := userFields(env.session.User())

	claims, err := env.session.Claims()
	if err != nil {
		env.logger.Debug("access token is not a readable jwt", zap.Error(err))
	} else {
		if claims.Subject != "" {
			fields = append(fields, zap.String("subject", claims.Subject))
		}
		if !claims.ExpiresAt.IsZero() {
			fields = append(fields, zap.Time("expires_at", claims.ExpiresAt))
		}
	}

	if !env.session.Authenticated(time.Now()) {
		env.logger.Warn("session has expired", append(fields, zap.String("hint", fmt.Sprintf("run '%s login'", app)))...)
		return
	}

	env.logger.Info("logged in", fields...)
}

func logUser(log *zap.Logger, msg string, user *session.User) {
	log.Info(msg, userFields(user)...)
}

func userFields(user *session.User) []zap.Field {
	if user == nil {
		return nil
	}

	return []zap.Field{
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("name", user.Name),
	}
}

func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func flagBool(cmd *cobra.Command, name string) bool {
	return flagString(cmd, name) == "true"
}
