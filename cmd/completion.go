package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for eventcal.

To load completions:

Bash:
  $ source <(eventcal completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ eventcal completion bash > /etc/bash_completion.d/eventcal
  # macOS:
  $ eventcal completion bash > $(brew --prefix)/etc/bash_completion.d/eventcal

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ eventcal completion zsh > "${fpath[1]}/_eventcal"

Fish:
  $ eventcal completion fish | source

  # To load completions for each session, execute once:
  $ eventcal completion fish > ~/.config/fish/completions/eventcal.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Annotations:           noContext,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(stdout)
		case "fish":
			return rootCmd.GenFishCompletion(stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}
