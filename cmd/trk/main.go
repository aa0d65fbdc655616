package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/client"
	"github.com/alfredjeanlab/tracker/internal/ui"
)

var (
	serverAddr string
	httpURL    string
	transport  string
	jsonOutput bool
	yamlOutput bool

	username string
	password string
	token    string

	trackerClient client.TrackerClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("TRACKER_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("TRACKER_SERVER"); s != "" {
		return s
	}
	if a := activeRemoteGRPCAddr(); a != "" {
		return a
	}
	return "localhost:9090"
}

func defaultToken() string {
	if s := os.Getenv("TRACKER_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

// credentials returns the caller identity from the flags.
func credentials() client.Credentials {
	return client.Credentials{Username: username, Password: password, Token: token}
}

// newClient builds a client for the selected transport.
func newClient() (client.TrackerClient, error) {
	switch transport {
	case "http":
		return client.NewHTTPClient(httpURL, credentials()), nil
	case "grpc":
		c, err := client.NewGRPCClient(serverAddr, credentials())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to server: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trk <command>",
	Short: "CLI client for the tracker service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput && yamlOutput {
			return fmt.Errorf("--json and --yaml are mutually exclusive")
		}
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		trackerClient = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if trackerClient != nil {
			trackerClient.Close()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output as YAML")
	rootCmd.PersistentFlags().StringVar(&username, "user", os.Getenv("TRACKER_USER"), "username for basic authentication")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("TRACKER_PASSWORD"), "password for basic authentication")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaultToken(), "bearer token (takes precedence over --user)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tracker", Title: "Tracker:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Tracker
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(revisionCmd)
	rootCmd.AddCommand(wikiCmd)

	// Views
	rootCmd.AddCommand(lookupsCmd)
	rootCmd.AddCommand(projectIDCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(eventsCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
