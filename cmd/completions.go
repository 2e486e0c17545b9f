package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// completeEventIDs completes short event ids with the title as description.
func completeEventIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 || ctx == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	events, err := ctx.Events.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, e := range events {
		if strings.HasPrefix(e.ID, toComplete) {
			completions = append(completions, e.ShortID()+"\t"+e.Date+" "+e.Title)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeWebhookNames completes configured webhook names.
func completeWebhookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 || ctx == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	webhooks, err := ctx.Webhooks.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, w := range webhooks {
		if strings.HasPrefix(w.Name, toComplete) {
			completions = append(completions, w.Name+"\t"+w.Type)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeFixed completes from a fixed list of values.
func completeFixed(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
