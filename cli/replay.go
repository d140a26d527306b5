package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"pfeifer.dev/mtsc/planner"
	"pfeifer.dev/mtsc/scenario"
	ms "pfeifer.dev/mtsc/settings"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Aliases:   []string{"r"},
		Usage:     "Runs a YAML scenario through a planner and prints one row per frame",
		ArgsUsage: "<scenario.yaml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("expected exactly one scenario file")
			}
			s, err := scenario.Load(cmd.Args().First())
			if err != nil {
				return err
			}
			limits := planner.LimitsFromSettings(s.Settings.Apply(ms.Settings))
			rows, err := scenario.Run(s, limits)
			if err != nil {
				return err
			}
			if s.Name != "" {
				fmt.Println(s.Name)
			}
			fmt.Print(scenario.Format(rows))
			return nil
		},
	}
}
