package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/cli/commands"
	"github.com/vidysea/notes/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Notes - a terminal client for the notes backend",
	Long: `Notes CLI - Sign up, log in and manage your notes from the terminal.

Sessions are stored per backend server. Users see their own notes;
admins can browse every user's notes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		logger.InitWithWriter(os.Stderr, level, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Server alias from notes.yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log requests and guard decisions to stderr")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("notes version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewDashCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
	rootCmd.AddCommand(commands.NewAddCmd())
	rootCmd.AddCommand(commands.NewEditCmd())
	rootCmd.AddCommand(commands.NewDeleteCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
