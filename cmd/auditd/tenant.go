package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/audit/internal/config"
	"github.com/alfredjeanlab/audit/internal/model"
)

var tenantCmd = &cobra.Command{
	Use:     "tenant",
	Short:   "Provision and deprovision tenants",
	GroupID: "tenant",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if caller.Tenant == "" {
			return fmt.Errorf("--tenant (or AUDIT_TENANT) is required")
		}
		return rootCmd.PersistentPreRunE(cmd, args)
	},
}

var tenantInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Provision a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleFrom, _ := cmd.Flags().GetString("module-from")
		moduleTo, _ := cmd.Flags().GetString("module-to")
		pairs, _ := cmd.Flags().GetStringArray("param")

		attrs, err := buildAttributes(moduleFrom, moduleTo, pairs)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("load-sample") {
			loadSample, _ := cmd.Flags().GetBool("load-sample")
			attrs.Parameters = append(attrs.Parameters, model.Parameter{
				Key:   config.KeyLoadSample,
				Value: strconv.FormatBool(loadSample),
			})
		}

		res, err := tenantClient.InitTenant(context.Background(), attrs)
		if err != nil {
			return fmt.Errorf("provisioning tenant %s: %w", caller.Tenant, err)
		}
		return printResult("Provisioned "+caller.Tenant, res)
	},
}

var tenantDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deprovision a tenant and drop its schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := tenantClient.DeleteTenant(context.Background())
		if err != nil {
			return fmt.Errorf("deprovisioning tenant %s: %w", caller.Tenant, err)
		}
		return printResult("Deprovisioned "+caller.Tenant, res)
	},
}

var tenantExistsCmd = &cobra.Command{
	Use:   "exists",
	Short: "Report whether a tenant is provisioned",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := tenantClient.TenantExists(context.Background())
		if err != nil {
			return fmt.Errorf("checking tenant %s: %w", caller.Tenant, err)
		}
		if jsonOutput {
			return printJSON(map[string]any{"tenant": caller.Tenant, "exists": ok})
		}
		fmt.Printf("%s: %t\n", caller.Tenant, ok)
		return nil
	},
}

// buildAttributes assembles a tenant attributes document from CLI input.
// --param values are key=value pairs; order is preserved.
func buildAttributes(moduleFrom, moduleTo string, pairs []string) (*model.TenantAttributes, error) {
	attrs := &model.TenantAttributes{ModuleFrom: moduleFrom, ModuleTo: moduleTo}
	for _, p := range pairs {
		args, err := config.ParseModuleArgs([]string{p})
		if err != nil {
			return nil, fmt.Errorf("invalid --param: %w", err)
		}
		for k, v := range args {
			attrs.Parameters = append(attrs.Parameters, model.Parameter{Key: k, Value: v})
		}
	}
	return attrs, nil
}

func init() {
	tenantInitCmd.Flags().String("module-from", "", "module id being upgraded from")
	tenantInitCmd.Flags().String("module-to", "", "module id being installed")
	tenantInitCmd.Flags().StringArray("param", nil, "tenant parameter as key=value (repeatable)")
	tenantInitCmd.Flags().Bool("load-sample", false, "seed sample circulation logs")

	tenantCmd.AddCommand(tenantInitCmd)
	tenantCmd.AddCommand(tenantDeleteCmd)
	tenantCmd.AddCommand(tenantExistsCmd)
}
