package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile of the logged in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		env := mustEnvironment()
		env.requireLogin()

		user, err := env.client.Profile(cmd.Context())
		if err != nil {
			env.fatal("getting the profile", err)
		}

		logUser(env.logger, "profile", user)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the name or email of the logged in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		updateProfile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	profileUpdateCmd.Flags().StringP("name", "n", "", "new display name")
	profileUpdateCmd.Flags().StringP("email", "e", "", "new email")
}

func updateProfile(cmd *cobra.Command) {
	env := mustEnvironment()
	env.requireLogin()

	update := backend.ProfileUpdate{
		Name:  strings.TrimSpace(flagString(cmd, "name")),
		Email: strings.TrimSpace(flagString(cmd, "email")),
	}
	if update.Name == "" && update.Email == "" {
		env.logger.Fatal("nothing to update, set --name or --email")
	}
	if update.Email != "" {
		if err := validateEmail(update.Email); err != nil {
			env.logger.Fatal("checking the email", zap.Error(err))
		}
	}

	// The backend replaces both fields, so unset ones keep their current value.
	current, err := env.client.Profile(cmd.Context())
	if err != nil {
		env.fatal("getting the profile", err)
	}
	if update.Name == "" {
		update.Name = current.Name
	}
	if update.Email == "" {
		update.Email = current.Email
	}

	user, err := env.client.UpdateProfile(cmd.Context(), update)
	if err != nil {
		env.fatal("updating the profile", err)
	}

	logUser(env.logger, "profile updated", user)
}
