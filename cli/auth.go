package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		a.Login(args[0], args[1])
		a.Wait()
		return reportStatus(a.Snapshot())
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <password> <email>",
	Short: "Create an account (log in afterwards)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		a.Register(args[0], args[1], args[2])
		a.Wait()
		return reportStatus(a.Snapshot())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		a.Logout()
		a.Wait()
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
