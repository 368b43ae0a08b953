package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/rules"
	"github.com/ancients-collective/harden/internal/types"
)

func newFixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fix <rule-id>",
		Short: "Apply the remediation of one rule and re-check it",
		Long: `Evaluate the selected profile, apply the remediation of one rule through
the configured non-interactive elevation command, and re-check the rule.
The reported status is always the re-checked one.

There is no fix-all: each remediation is requested explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			_, rs, err := a.catalogue()
			if err != nil {
				return err
			}

			rule, ok := rules.Find(rs, id)
			if !ok {
				a.unknownRule(id)
				a.exitCode = exitError
				return nil
			}

			s := engine.Evaluate(rs)
			before, _ := s.Status(id)
			out := engine.ApplyFix(rule, s)
			after, _ := s.Status(id)

			printOutcome(a, rule, out, before, after)

			if !out.OK || after == types.StatusFail {
				a.exitCode = exitError
			} else if after == types.StatusUnknown {
				a.exitCode = exitUnknown
			}
			return nil
		},
	}
}

func printOutcome(a *app, rule types.Rule, out types.FixOutcome, before, after types.Status) {
	mark := "✓"
	if !out.OK {
		mark = "✗"
	}

	lines := strings.Split(out.Message, "\n")
	fmt.Fprintf(a.stdout, "\n  %s %s: %s\n", mark, rule.ID, lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(a.stdout, "    %s\n", l)
	}
	fmt.Fprintf(a.stdout, "  %s  [%s] → [%s] %s\n\n", rule.Title, before.Icon(), after.Icon(), after)
}

// unknownRule explains a missing rule id and suggests close matches.
func (a *app) unknownRule(id string) {
	all := rules.Build(rules.ProfileAll, rules.Env{})
	if _, ok := rules.Find(all, id); ok {
		a.errorf("Rule %q is not in the selected profile or is disabled by configuration", id)
		return
	}

	a.errorf("No rule found with ID %q", id)
	if suggestions := suggestIDs(id, rules.IDs(all)); len(suggestions) > 0 {
		fmt.Fprintf(a.stderr, "\n  Did you mean:\n")
		for _, s := range suggestions {
			fmt.Fprintf(a.stderr, "    • %s\n", s)
		}
	}
	fmt.Fprintf(a.stderr, "\n  Use 'harden rules list' to see all available rule IDs.\n")
}
