package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/model"
	"github.com/guimove/scenequery/internal/targets"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [scene...]",
	Short: "List the metrics each scene can generate",
	Long: `List the metric names known to each scene, or to the given scenes.
Metrics marked with * support --aux reference lines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenes := model.Scenes
		if len(args) > 0 {
			scenes = nil
			for _, a := range args {
				s, err := model.ParseScene(a)
				if err != nil {
					return err
				}
				scenes = append(scenes, s)
			}
		}

		out := cmd.OutOrStdout()
		for _, s := range scenes {
			fmt.Fprintf(out, "%s:\n", s)
			for _, m := range generator.GetInstance(s).Metrics() {
				mark := " "
				if targets.HasAuxiliaryLines(m) {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", mark, m)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
