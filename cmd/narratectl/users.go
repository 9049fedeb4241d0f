package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "Account operations"}

	// create
	var userId, email, password, fullName, tz string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userId == "" || email == "" || password == "" {
				return fmt.Errorf("--userId, --email and --password required")
			}
			payload := map[string]interface{}{"userId": userId, "email": email, "password": password}
			if fullName != "" {
				payload["displayName"] = fullName
			}
			if tz != "" {
				payload["timeZone"] = tz
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/auth/register", apiFlag), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&userId, "userId", "u", "", "UserID (required)")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	createCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	createCmd.Flags().StringVarP(&fullName, "name", "n", "", "Full name")
	createCmd.Flags().StringVar(&tz, "tz", "", "Time zone (defaults UTC)")
	_ = createCmd.MarkFlagRequired("userId")
	usersCmd.AddCommand(createCmd)

	// login
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email and --password required")
			}
			payload := map[string]interface{}{"email": loginEmail, "password": loginPassword}
			data, err := doPostJSON(fmt.Sprintf("%s/api/auth/login", apiFlag), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (required)")
	usersCmd.AddCommand(loginCmd)

	rootCmd.AddCommand(usersCmd)
}
