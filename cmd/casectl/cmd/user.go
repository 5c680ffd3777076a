package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/internal/config"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/service"
	"github.com/casetrack/casetrack/internal/validation"
)

func UserCmd(cfg *config.Config) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	userCmd.AddCommand(userCreateCmd(cfg))
	return userCmd
}

func userCreateCmd(cfg *config.Config) *cobra.Command {
	var (
		in   service.CreateUserInput
		role int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, applying the password policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("role") {
				in.Role = &role
			}

			return withDB(cmd.Context(), cfg, func(database *sqlx.DB) error {
				users := service.NewUserService(
					repository.NewUserRepository(database),
					repository.NewLookupRepository(database, repository.TableRoles),
					validation.DefaultPasswordPolicy,
				)

				user, err := users.Create(cmd.Context(), in)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.FirstName, "fname", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "lname", "", "last name")
	cmd.Flags().Int64Var(&role, "role", 0, "role id")
	cmd.Flags().BoolVar(&in.IsStaff, "staff", false, "grant staff access")
	cmd.Flags().BoolVar(&in.IsSuperuser, "superuser", false, "grant superuser access")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
