package quote

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	pricingServices "github.com/fylo-cloud/fylo/internal/application/pricing/services"
	"github.com/fylo-cloud/fylo/internal/application/pricing/usecases"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	sharedConfig "github.com/fylo-cloud/fylo/internal/shared/config"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

type options struct {
	configPath string
	location   string
	os         string
	cores      int
	ramGb      int
	storageGb  int
	billing    string
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a VPS configuration",
		Long:  `Compute the storefront price of a configuration with the configured tariff and print it as YAML.`,
		Example: `  fylo quote --location france --os ubuntu-22.04 --cores 4 --ram 8 --storage 200
  fylo quote --billing annual --cores 2 --ram 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("", opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg.Pricing, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&opts.location, "location", "france", "Datacenter location")
	cmd.Flags().StringVar(&opts.os, "os", "ubuntu-22.04", "Operating system")
	cmd.Flags().IntVar(&opts.cores, "cores", 4, "vCPU cores")
	cmd.Flags().IntVar(&opts.ramGb, "ram", 8, "RAM in GB")
	cmd.Flags().IntVar(&opts.storageGb, "storage", 200, "Storage in GB")
	cmd.Flags().StringVar(&opts.billing, "billing", "monthly", "Billing period (monthly, annual)")

	return cmd
}

// quoteOutput is the YAML document printed for a quote.
type quoteOutput struct {
	Configuration struct {
		Location        string `yaml:"location"`
		OperatingSystem string `yaml:"operating_system"`
		Cores           int    `yaml:"cores"`
		RAMGb           int    `yaml:"ram_gb"`
		StorageGb       int    `yaml:"storage_gb"`
		BillingPeriod   string `yaml:"billing_period"`
	} `yaml:"configuration"`
	Amount            float64  `yaml:"amount"`
	MonthlyEquivalent float64  `yaml:"monthly_equivalent"`
	Currency          string   `yaml:"currency"`
	Display           string   `yaml:"display"`
	Clamped           bool     `yaml:"clamped,omitempty"`
	Warnings          []string `yaml:"warnings,omitempty"`
}

func run(ctx context.Context, out io.Writer, pricingCfg sharedConfig.PricingConfig, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tariff, err := pricingServices.TariffFromConfig(pricingCfg)
	if err != nil {
		return fmt.Errorf("invalid pricing configuration: %w", err)
	}

	uc := usecases.NewQuotePriceUseCase(pricing.NewEngine(tariff), logger.NewNopLogger())
	result, err := uc.Execute(ctx, usecases.QuotePriceCommand{Config: orderdto.ConfigurationDTO{
		Location:        opts.location,
		OperatingSystem: opts.os,
		Cores:           opts.cores,
		RAMGb:           opts.ramGb,
		StorageGb:       opts.storageGb,
		BillingPeriod:   opts.billing,
	}})
	if err != nil {
		return err
	}

	var doc quoteOutput
	doc.Configuration.Location = result.Config.Location
	doc.Configuration.OperatingSystem = result.Config.OperatingSystem
	doc.Configuration.Cores = result.Config.Cores
	doc.Configuration.RAMGb = result.Config.RAMGb
	doc.Configuration.StorageGb = result.Config.StorageGb
	doc.Configuration.BillingPeriod = result.Config.BillingPeriod
	doc.Amount = result.Amount
	doc.MonthlyEquivalent = result.MonthlyEquivalent
	doc.Currency = result.Currency
	doc.Display = result.Display
	doc.Clamped = result.Clamped
	doc.Warnings = result.Warnings

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}
	return enc.Close()
}
