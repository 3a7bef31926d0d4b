package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"threatdash/internal/config"
	"threatdash/internal/logging"
)

var (
	cfgFile string
	envFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "threatdash",
	Short: "Threat-vs-platform dashboard for operational areas",
	Long: `threatdash records operator threat reports and answers whether a threat
affects an area by checking the issues and concessions product datasets.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(v)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "optional settings file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("areas", "", "valid-area file (overrides CONFIG_PATH)")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("loglevel"))
	_ = v.BindPFlag("config_path", rootCmd.PersistentFlags().Lookup("areas"))
}

func initConfig() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	if err := logging.SetLevel(v.GetString("log_level"), v.GetBool("debug")); err != nil {
		logging.Log.Warnf("%v, using info", err)
	}
	return nil
}

// loadConfig is shared by the subcommands after flags are bound.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		logging.Log.Warnf("config: %v", err)
	}
	return cfg, cfg.Validate()
}

// bindFlags binds per-command flags to viper keys. Done at run time because
// several commands share a key and viper keeps one flag per key.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}
