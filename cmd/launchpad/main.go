package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "Provision a starter kit: credentials, env file, GitHub and Vercel",
	Long: `Launchpad configures a freshly cloned starter kit.

It verifies the Clerk and Supabase credentials, writes the local env file,
pushes the project to a new GitHub repository and deploys it on Vercel.

Run "launchpad serve" in the project directory, then "launchpad wizard".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(redeployCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// defaultConfigPath prefers LAUNCHPAD_CONFIG over ./launchpad.yaml.
func defaultConfigPath() string {
	if p := os.Getenv("LAUNCHPAD_CONFIG"); p != "" {
		return p
	}
	return "launchpad.yaml"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
