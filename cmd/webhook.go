package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/runtime"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/validate"
)

// Webhook command flags.
var (
	webhookAddFlagType     string
	webhookAddFlagTemplate string
	webhookRemoveFlagForce bool
	webhookTestFlagAll     bool
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// webhookCmd represents the webhook command.
var webhookCmd = &cobra.Command{
	Use:     "webhook [command]",
	Aliases: []string{"w", "wh", "hook"},
	Short:   "Configure notification webhooks",
	Long: `Configure webhooks for Discord, Slack or custom endpoints.

The daemon posts a message to every enabled webhook when an event's
notification time arrives.

Examples:
  eventcal webhook add team https://discord.com/api/webhooks/...
  eventcal webhook add ops https://hooks.slack.com/services/...
  eventcal webhook list
  eventcal webhook test team
  eventcal webhook disable ops
  eventcal webhook remove team`,
	RunE: runWebhookList,
}

// webhookAddCmd adds a new webhook.
var webhookAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a new webhook",
	Long: `Add a webhook for receiving notifications.

The webhook type is auto-detected from the URL:
  - Discord: discord.com/api/webhooks/...
  - Slack:   hooks.slack.com/services/...
  - Generic: Any other URL

Examples:
  eventcal webhook add team https://discord.com/api/webhooks/123/abc
  eventcal webhook add my-hook https://example.com/hook --type generic
  eventcal webhook add bot https://example.com/bot --template '{"text": "{{.Message}}"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runWebhookAdd,
}

// webhookListCmd lists all webhooks.
var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all webhooks",
	RunE:  runWebhookList,
}

// webhookTestCmd tests a webhook.
var webhookTestCmd = &cobra.Command{
	Use:   "test [NAME]",
	Short: "Test a webhook by sending a test notification",
	Long: `Send a test notification to verify webhook configuration.

Examples:
  eventcal webhook test team
  eventcal webhook test --all`,
	RunE: runWebhookTest,
}

// webhookRemoveCmd removes a webhook.
var webhookRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a webhook",
	Args:    cobra.ExactArgs(1),
	RunE:    runWebhookRemove,
}

// webhookEnableCmd enables a webhook.
var webhookEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], true)
	},
}

// webhookDisableCmd disables a webhook.
var webhookDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], false)
	},
}

func init() {
	webhookAddCmd.Flags().StringVarP(&webhookAddFlagType, "type", "t", "",
		"Webhook type: discord, slack, generic (auto-detected from URL if not specified)")
	webhookAddCmd.RegisterFlagCompletionFunc("type", completeFixed(model.ValidWebhookTypes()...))
	webhookAddCmd.Flags().StringVar(&webhookAddFlagTemplate, "template", "",
		"Request body template for generic webhooks (Go text/template over the notification)")

	webhookRemoveCmd.Flags().BoolVar(&webhookRemoveFlagForce, "force", false,
		"Skip confirmation")

	webhookTestCmd.Flags().BoolVarP(&webhookTestFlagAll, "all", "a", false,
		"Test all enabled webhooks")

	webhookTestCmd.ValidArgsFunction = completeWebhookNames
	webhookRemoveCmd.ValidArgsFunction = completeWebhookNames
	webhookEnableCmd.ValidArgsFunction = completeWebhookNames
	webhookDisableCmd.ValidArgsFunction = completeWebhookNames

	webhookCmd.AddCommand(webhookAddCmd)
	webhookCmd.AddCommand(webhookListCmd)
	webhookCmd.AddCommand(webhookTestCmd)
	webhookCmd.AddCommand(webhookRemoveCmd)
	webhookCmd.AddCommand(webhookEnableCmd)
	webhookCmd.AddCommand(webhookDisableCmd)

	rootCmd.AddCommand(webhookCmd)
}

// runWebhookAdd handles the webhook add command.
func runWebhookAdd(cmd *cobra.Command, args []string) error {
	name, rawURL := args[0], args[1]

	if err := validate.WebhookName(name); err != nil {
		return err
	}
	if err := validate.URL(rawURL); err != nil {
		return err
	}

	webhookType := webhookAddFlagType
	if webhookType == "" {
		webhookType = model.DetectWebhookType(rawURL)
	}
	if !model.IsValidWebhookType(webhookType) {
		return apperrors.NewUserErrorWithField("type", webhookType, "Invalid webhook type",
			"Valid types: "+strings.Join(model.ValidWebhookTypes(), ", "))
	}
	if webhookAddFlagTemplate != "" {
		if webhookType != model.WebhookTypeGeneric {
			return apperrors.NewUserErrorWithField("template", webhookAddFlagTemplate,
				"Templates only apply to generic webhooks", "Add --type generic")
		}
		if _, err := notify.ParseTemplate(webhookAddFlagTemplate); err != nil {
			return apperrors.NewUserErrorWithField("template", webhookAddFlagTemplate,
				"Invalid template: "+err.Error(), "Fields: {{.Title}} {{.Message}} {{.EventID}} {{.Timestamp}}")
		}
	}

	exists, err := ctx.Webhooks.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewUserErrorWithField("name", name, "Webhook already exists",
			"Remove it first with 'eventcal webhook remove "+name+"'")
	}

	w := model.NewWebhook(name, webhookType, rawURL, ctx.Now())
	w.Template = webhookAddFlagTemplate
	if err := ctx.Webhooks.Create(w); err != nil {
		return runtime.WrapStorageError(err, "create webhook")
	}
	logging.LogOperation("create webhook", logging.KeyWebhook, name, logging.KeyURL, rawURL)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": "created", "webhook": output.NewWebhookOutput(w)})
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Webhook '%s' added (%s)", name, webhookType))
	cli.Muted("Test it with: eventcal webhook test " + name)
	return nil
}

// runWebhookList handles the webhook list command.
func runWebhookList(cmd *cobra.Command, args []string) error {
	webhooks, err := ctx.Webhooks.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintWebhooks(webhooks)
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintWebhooks(webhooks)
		return nil
	}
	ctx.CLIFormatter().PrintWebhooks(webhooks)
	return nil
}

// runWebhookTest handles the webhook test command.
func runWebhookTest(cmd *cobra.Command, args []string) error {
	var names []string
	switch {
	case webhookTestFlagAll:
		webhooks, err := ctx.Webhooks.ListEnabled()
		if err != nil {
			return err
		}
		for _, w := range webhooks {
			names = append(names, w.Name)
		}
	case len(args) == 1:
		names = args
	default:
		return apperrors.NewUserError("Webhook name required", "Pass a NAME or use --all")
	}

	client := notify.NewHTTPClient(ctx.Config.HTTPTimeout, ctx.Config.HTTPMaxRetries)
	dispatcher := notify.NewDispatcher(ctx.Webhooks, client)

	results := make([]notify.DispatchResult, 0, len(names))
	failed := 0
	for _, name := range names {
		res := dispatcher.Test(logging.NewRequestContext(), name)
		if !res.Success {
			failed++
		}
		results = append(results, res)
	}

	if ctx.IsJSON() {
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = map[string]any{
				"name":        r.WebhookName,
				"success":     r.Success,
				"status_code": r.StatusCode,
				"attempts":    r.Attempts,
				"error":       errorString(r.Error),
			}
		}
		return ctx.Formatter.JSON(map[string]any{"results": out})
	}

	cli := ctx.CLIFormatter()
	if len(results) == 0 {
		cli.Muted("No enabled webhooks.")
	}
	for _, r := range results {
		if r.Success {
			cli.Success(fmt.Sprintf("%s: delivered (HTTP %d, %s)", r.WebhookName, r.StatusCode, r.Duration.Round(time.Millisecond)))
		} else {
			cli.Error(fmt.Sprintf("%s: %s", r.WebhookName, errorString(r.Error)))
		}
	}
	if failed > 0 {
		return reportedError{fmt.Errorf("%d webhook test(s) failed", failed)}
	}
	return nil
}

// runWebhookRemove handles the webhook remove command.
func runWebhookRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, err := ctx.Webhooks.Get(name); err != nil {
		return err
	}

	if !webhookRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove webhook '%s'? [y/N] ", name)
		answer, _ := bufio.NewReader(stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			ctx.Formatter.Println("Cancelled")
			return nil
		}
	}

	if err := ctx.Webhooks.Delete(name); err != nil {
		return runtime.WrapStorageError(err, "delete webhook")
	}
	logging.LogOperation("delete webhook", logging.KeyWebhook, name)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": "removed", "name": name})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Webhook '%s' removed", name))
	return nil
}

func setWebhookEnabled(name string, enabled bool) error {
	if err := ctx.Webhooks.SetEnabled(name, enabled); err != nil {
		return runtime.WrapStorageError(err, "update webhook")
	}
	logging.LogOperation("update webhook", logging.KeyWebhook, name, "enabled", enabled)

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": state, "name": name})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Webhook '%s' %s", name, state))
	return nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
