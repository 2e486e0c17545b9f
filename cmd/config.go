package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
)

var configInitFlagForce bool

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show or create the configuration file",
	Long: `Settings are read from built-in defaults, then the YAML config file,
then EVENTCAL_* environment variables such as EVENTCAL_TIMEZONE.

Examples:
  eventcal config show
  eventcal config init
  EVENTCAL_DEFAULT_VIEW=month eventcal config show`,
	Annotations: noContext,
	RunE:        runConfigShow,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Annotations: noContext,
	RunE:        runConfigShow,
}

// configInitCmd writes the defaults to the config file.
var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the default settings",
	Annotations: noContext,
	RunE:        runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitFlagForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	path := config.ResolvePath(flagConfig)

	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"path": path, "config": cfg})
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if f.Format == output.FormatCLI {
		output.NewCLIFormatter(f).Muted("# " + path)
	}
	f.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	path := config.ResolvePath(flagConfig)

	if _, err := os.Stat(path); err == nil && !configInitFlagForce {
		return apperrors.NewUserErrorWithField("path", path, "Config file already exists",
			"Pass --force to overwrite it")
	}
	if err := config.Save(path, config.Default()); err != nil {
		return apperrors.NewSystemError("cannot write config file "+path, err)
	}

	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"status": "created", "path": path})
	}
	output.NewCLIFormatter(f).Success("Config written to " + path)
	return nil
}
