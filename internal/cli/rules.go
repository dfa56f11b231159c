package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/facts"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and test the common-sense fact rules",
	Long: `The fact layer decides trivial claims from a YAML rule table before any
evidence is retrieved. The built-in table can be replaced with facts.rules_file
in the config file or --rules.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rule table as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		table, err := pipeline.LoadFacts(cfg.Facts)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(table)
		if err != nil {
			return fmt.Errorf("marshal rules: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%d entity, %d category, %d tautology rules\n\n",
			len(table.Entities), len(table.Categories), len(table.Tautologies))
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a YAML rule table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := facts.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d rules\n", args[0], table.Size())
		return nil
	},
}

var rulesTestCmd = &cobra.Command{
	Use:   "test <claim>",
	Short: "Show which rule, if any, decides a claim",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		table, err := pipeline.LoadFacts(cfg.Facts)
		if err != nil {
			return err
		}

		claim := model.NewClaim(strings.Join(args, " "))
		result, match, ok := facts.NewLayer(table).Check(claim)
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "No rule matches %q; the claim goes to evidence retrieval.\n", claim.Canonical)
			return nil
		}
		fmt.Fprintf(out, "Rule:        %s\n", match.Rule)
		fmt.Fprintf(out, "Verdict:     %s\n", result.Verdict)
		fmt.Fprintf(out, "Confidence:  %.2f\n", result.Confidence)
		fmt.Fprintf(out, "\n%s\n", result.Explanation)
		return nil
	},
}

func init() {
	rulesCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlag("facts.rules_file", rulesCmd.PersistentFlags().Lookup("rules"))
	}
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.PersistentFlags().String("rules", "", "YAML fact rule table replacing the built-in one")
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesTestCmd)
}
