package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"quant_architect/internal/ai"
	"quant_architect/internal/analysis"
	"quant_architect/internal/display"
	"quant_architect/internal/models"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		modeFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <ticker|command>",
		Short: "Run one analysis cycle and print the readout",
		Example: `  quant_architect analyze NVDA
  quant_architect analyze "SCAN MARKET" --mode SWING --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(false)
			if err != nil {
				return err
			}
			if modeFlag == "" {
				modeFlag = cfg.DefaultMode
			}
			mode, err := models.ParseTradingMode(modeFlag)
			if err != nil {
				return err
			}

			gen, err := ai.NewGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			engine := analysis.NewEngine(gen,
				analysis.WithTimeout(cfg.GenerationTimeout()),
				analysis.WithLogger(logger),
			)

			res := engine.Run(cmd.Context(), strings.Join(args, " "), mode)
			if res.Degraded() {
				logger.Warn().Str("outcome", string(res.Outcome)).Err(res.Err).Msg("Serving default readout")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Analysis)
			}
			fmt.Fprintln(out, display.Render(res.Analysis, mode))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "trading mode: SCALP, DAY or SWING")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the normalized result as JSON")
	return cmd
}
