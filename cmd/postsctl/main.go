// Command postsctl runs maintenance tasks against the posts store.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // optionally load environment file
	rootCmd := &cobra.Command{
		Use:          "postsctl",
		Short:        "Posts store maintenance tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		schemaCmd(),
		seedCmd(),
		checkCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
