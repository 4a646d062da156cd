package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/audit/internal/client"
	"github.com/alfredjeanlab/audit/internal/ui"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	caller     client.Caller

	tenantClient client.TenantClient
)

func envOr(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

var rootCmd = &cobra.Command{
	Use:          "auditd <command>",
	Short:        "Audit log module: tenant lifecycle server and CLI",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			ui.ForceNoColor()
		}
		tenantClient = client.NewHTTPClient(httpURL, authToken, caller)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tenantClient != nil {
			tenantClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "url", envOr("AUDIT_URL", "http://localhost:8081"), "audit module HTTP URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("AUDIT_AUTH_TOKEN"), "bearer token for the audit module")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&caller.Tenant, "tenant", os.Getenv("AUDIT_TENANT"), "tenant id sent as X-Okapi-Tenant")
	rootCmd.PersistentFlags().StringVar(&caller.Token, "okapi-token", os.Getenv("AUDIT_OKAPI_TOKEN"), "token sent as X-Okapi-Token")
	rootCmd.PersistentFlags().StringVar(&caller.OkapiURL, "okapi-url", os.Getenv("AUDIT_OKAPI_URL"), "gateway URL sent as X-Okapi-Url")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tenant", Title: "Tenants:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(samplesCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
