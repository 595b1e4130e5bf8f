package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

var validateType string

var validateCmd = &cobra.Command{
	Use:   "validate <request-file>",
	Short: "Report the analysis field and valid value count for each layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := config.LoadCLI(cfgFile)
		if err != nil {
			return err
		}
		req, err := loadRequest(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		at := cli.Options.AnalysisType
		if req.Options != nil && req.Options.AnalysisType != "" {
			at = req.Options.AnalysisType
		}
		if validateType != "" {
			at = domain.AnalysisType(validateType)
		}

		rows := validateLayers(req, at)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LAYER\tFEATURES\tFIELD\tVALID\tSTATES")
		empty := 0
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\n", r.name, r.features, r.field, r.valid, r.states)
			if r.valid == 0 {
				empty++
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if empty > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d layers have no numeric values for their field\n", empty, len(rows))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateType, "type", "t", "", "analysis type used for field resolution")
}

type layerReport struct {
	name     string
	features int
	field    string
	valid    int
	states   int
}

func validateLayers(req domain.SummarizeRequest, at domain.AnalysisType) []layerReport {
	rows := make([]layerReport, 0, len(req.Layers))
	for _, l := range req.Layers {
		cfg := req.LayerConfigs[l.ID]
		field := summarize.ResolveField(l.Features, cfg, at)
		rows = append(rows, layerReport{
			name:     summarize.LayerName(l, cfg),
			features: len(l.Features),
			field:    field,
			valid:    len(stats.ExtractNumeric(l.Features, field)),
			states:   stats.SummarizeGeographicCoverage(l.Features).UniqueStates,
		})
	}
	return rows
}
