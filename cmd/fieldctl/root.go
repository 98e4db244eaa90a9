package main

import (
	"encoding/json"
	"fmt"
	"os"

	"nirman-fieldworks/internal/client/api"
	"nirman-fieldworks/internal/client/lifecycle"
	"nirman-fieldworks/internal/client/session"
	"nirman-fieldworks/internal/client/transport"
	"nirman-fieldworks/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagServer string

	store      session.Store
	authClient *api.AuthClient
	workClient *api.WorkClient
	controller *lifecycle.Controller
)

var rootCmd = &cobra.Command{
	Use:   "fieldctl",
	Short: "Field client for the Nirman work-proposal system",
	Long: `fieldctl is the field engineer's client for the Nirman work-proposal
system: log in, list assigned work, update status and submit progress
reports with photos and GPS coordinates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClients()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "",
		"API base URL (defaults to NIRMAN_API_URL or "+config.DefaultAPIURL+")")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(worksCmd)
	rootCmd.AddCommand(progressCmd)
}

// initClients wires the session store, transport and API clients shared by
// every subcommand.
func initClients() error {
	dir, err := session.DefaultDir()
	if err != nil {
		return fmt.Errorf("cannot resolve session directory: %w", err)
	}
	fileStore, err := session.NewFileStore(dir)
	if err != nil {
		return err
	}
	store = fileStore

	baseURL := flagServer
	if baseURL == "" {
		baseURL = config.APIURL()
	}

	t := transport.New(baseURL, store)
	authClient = api.NewAuthClient(t)
	workClient = api.NewWorkClient(t)
	controller = lifecycle.NewController(store, authClient)
	return nil
}

// reportError prints an API failure and flips the local session state when
// the server rejected our token.
func reportError(err error) error {
	if controller.HandleError(err) {
		return fmt.Errorf("session expired, please run 'fieldctl login' again")
	}
	return err
}

// printJSON pretty-prints a raw payload to stdout.
func printJSON(raw json.RawMessage) {
	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err == nil {
		out, _ := json.MarshalIndent(buf, "", "  ")
		fmt.Println(string(out))
		return
	}
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		out, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(out))
		return
	}
	os.Stdout.Write(raw)
	fmt.Println()
}
