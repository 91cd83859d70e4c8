package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fylo-cloud/fylo/internal/interfaces/cli/migrate"
	"github.com/fylo-cloud/fylo/internal/interfaces/cli/quote"
	"github.com/fylo-cloud/fylo/internal/interfaces/cli/server"
	"github.com/fylo-cloud/fylo/internal/interfaces/cli/token"
	"github.com/fylo-cloud/fylo/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fylo",
		Short:        "Fylo - VPS storefront and order console",
		Long:         `Fylo serves the VPS configurator, takes orders and streams them live to the admin panel.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		quote.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
