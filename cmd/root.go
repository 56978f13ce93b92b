package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/scenequery/internal/config"
	"github.com/guimove/scenequery/internal/logging"
)

var log = logging.Log()

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scenequery",
	Short: "PromQL expression generator for Kubernetes monitoring charts",
	Long: `scenequery turns a scene (performance, network, capacity), a metric name and a
chart context into PromQL expressions, wrapped as chart targets.

Expressions keep the $method, $interval and $time_shift placeholders for the
query-execution layer. Resource values can be given directly or resolved from a
live cluster.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		logging.Init(cfg.Log.Verbosity)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	d := config.Default()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: scenequery.yaml)")
	rootCmd.PersistentFlags().IntP("verbosity", "v", d.Log.Verbosity, "log verbosity")

	// Global flags that map to config
	rootCmd.PersistentFlags().String("cluster-id", d.Context.ClusterID, "cluster ID injected into every selector")
	rootCmd.PersistentFlags().String("api", d.Targets.API, "execution endpoint targets are addressed to")
	rootCmd.PersistentFlags().String("interval", d.Targets.Interval, "interval placeholder of every query config")
	rootCmd.PersistentFlags().String("kubeconfig", d.Kubernetes.Kubeconfig, "path to kubeconfig file")
	rootCmd.PersistentFlags().String("kube-context", d.Kubernetes.Context, "Kubernetes context name")
	rootCmd.PersistentFlags().StringP("output", "o", d.Output.Format, "output format: table, json, yaml")

	_ = viper.BindPFlag("log.verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
	_ = viper.BindPFlag("context.cluster_id", rootCmd.PersistentFlags().Lookup("cluster-id"))
	_ = viper.BindPFlag("targets.api", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("targets.interval", rootCmd.PersistentFlags().Lookup("interval"))
	_ = viper.BindPFlag("kubernetes.kubeconfig", rootCmd.PersistentFlags().Lookup("kubeconfig"))
	_ = viper.BindPFlag("kubernetes.context", rootCmd.PersistentFlags().Lookup("kube-context"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))

	// Keys without a flag still need a default for env overrides to be seen.
	viper.SetDefault("context.group_by", d.Context.GroupBy)
	viper.SetDefault("kubernetes.namespace", d.Kubernetes.Namespace)
	viper.SetDefault("server.addr", d.Server.Addr)
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scenequery")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.scenequery")
	}

	// Environment variable overrides, e.g. SCENEQUERY_SERVER_ADDR
	viper.SetEnvPrefix("SCENEQUERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}
