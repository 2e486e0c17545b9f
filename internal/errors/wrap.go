package errors

import (
	"fmt"
	"strings"
)

// FormatUserError renders err with its suggestion and example commands.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())

	if suggestion := GetSuggestion(err); suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(suggestion)
	}

	if examples := GetExamples(err); len(examples) > 0 {
		sb.WriteString("\n\nExamples:\n")
		for _, ex := range examples {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatDebugError renders err with its chain, category and root cause.
func FormatDebugError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", err.Error())

	if chain := Chain(err); len(chain) > 1 {
		sb.WriteString("\nError chain:\n")
		for i, msg := range chain {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, msg)
		}
	}

	fmt.Fprintf(&sb, "\nCategory: %s\n", GetCategory(err))
	if se, ok := AsSystemError(err); ok && se.Op != "" {
		fmt.Fprintf(&sb, "Operation: %s\n", se.Op)
	}

	if suggestion := GetSuggestion(err); suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", suggestion)
	}

	if root := RootCause(err); root != err {
		fmt.Fprintf(&sb, "\nRoot cause: %v\n", root)
	}

	return sb.String()
}
