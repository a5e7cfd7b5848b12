package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docsaged",
		Short: "Docsage daemon and CLI",
		Long:  "Docsage daemon for serving documentation queries and managing the vector index",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IndexCmd())
	rootCmd.AddCommand(admin.StatusCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
