package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/scenequery/internal/kube"
)

var (
	resolveNamespace string
	resolveSelector  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <dimension>...",
	Short: "Resolve dimensions to regex alternations from a live cluster",
	Long: `Resolve lists the Kubernetes objects behind each dimension and prints the
value generate expects for it, one "dimension=value" line each. The output can
be fed back with --resource.`,
	Example: `  scenequery resolve node
  scenequery resolve pod workload -n prod -l app=api`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dims, err := parseDimensions(args)
		if err != nil {
			return err
		}
		client, kubeContext, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
		if err != nil {
			return fmt.Errorf("connecting to Kubernetes: %w", err)
		}
		log.V(1).Info("resolving from cluster", "context", kubeContext)

		opts := resolveOptions(resolveNamespace, resolveSelector)
		for _, d := range dims {
			v, err := kube.Resolve(cmd.Context(), client, d, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", d, v)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveNamespace, "namespace", "n", "", "namespace to list (default: all)")
	resolveCmd.Flags().StringVarP(&resolveSelector, "selector", "l", "", "label selector")
	rootCmd.AddCommand(resolveCmd)
}
