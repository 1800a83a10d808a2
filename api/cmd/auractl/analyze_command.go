package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aura-check/api/internal/aura"
	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/util"
	"aura-check/api/internal/vision/types"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Score one outfit photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			payload := util.MakeDataURL(util.SniffMimeHTTP(data), base64.StdEncoding.EncodeToString(data))

			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}
			res, err := pipeline.Analyze(cmd.Context(), types.NewAnalysisRequest(payload))
			if err != nil {
				if !text {
					_ = writeJSON(cmd, types.ErrorResponse{Error: apperrors.PublicMessage(err)})
				}
				return fmt.Errorf("%s: %s", apperrors.TypeOf(err), apperrors.PublicMessage(err))
			}

			if text {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g (%s, %d%%) %s\n%s\n",
					res.AuraScore, aura.TierOf(res.AuraScore), aura.GaugePercent(res.AuraScore), res.VibeLabel, res.Roast)
				return err
			}
			return writeJSON(cmd, res)
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Print a one-line summary instead of JSON")
	return cmd
}
