package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the server and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := flagEmail
		password := flagPassword

		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			fmt.Print("Email: ")
			line, _ := reader.ReadString('\n')
			email = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Print("Password: ")
			line, _ := reader.ReadString('\n')
			password = strings.TrimSpace(line)
		}

		if err := controller.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println("✅ Login successful")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := controller.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, ok := controller.CurrentUser()
		if !ok {
			fmt.Println("Not logged in")
			return nil
		}
		printJSON(sess.User)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
}
