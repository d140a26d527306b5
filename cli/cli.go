package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"pfeifer.dev/mtsc/params"
	"pfeifer.dev/mtsc/planner"
	ms "pfeifer.dev/mtsc/settings"
)

func Handle() {
	if err := NewCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "mtsc",
		Usage: "Map turn speed control from geo-tagged curve speed targets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Category: "Params",
				Name:     "params-dir",
				Usage:    "The directory persistent params are stored in",
				Value:    params.ParamsPath,
			},
			&cli.StringFlag{
				Category: "Params",
				Name:     "mem-params-dir",
				Usage:    "The directory memory params are stored in",
				Value:    params.MemParamsPath,
			},
			&cli.Float64Flag{
				Category: "Limits",
				Name:     "target-jerk",
				Usage:    "Overrides the stored target jerk in m/s^3",
			},
			&cli.Float64Flag{
				Category: "Limits",
				Name:     "target-accel",
				Usage:    "Overrides the stored target acceleration in m/s^2",
			},
			&cli.Float64Flag{
				Category: "Limits",
				Name:     "target-offset",
				Usage:    "Overrides the stored target offset in seconds",
			},
			&cli.IntFlag{
				Category: "Params",
				Name:     "settings-retries",
				Usage:    "Retries loading the stored settings once a second before falling back to defaults",
				Value:    0,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Overrides the stored log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			params.ParamsPath = cmd.String("params-dir")
			params.MemParamsPath = cmd.String("mem-params-dir")
			if tries := int(cmd.Int("settings-retries")); tries > 0 {
				ms.Settings.LoadWithRetries(tries)
			} else {
				ms.Settings.Load()
			}
			applyOverrides(cmd, &ms.Settings)
			return ctx, nil
		},
		Commands: []*cli.Command{
			targetCommand(),
			watchCommand(),
			replayCommand(),
			targetsCommand(),
			settingsCommand(),
		},
	}
}

func applyOverrides(cmd *cli.Command, s *ms.MtscSettings) {
	if cmd.IsSet("target-jerk") {
		s.TargetJerk = cmd.Float64("target-jerk")
	}
	if cmd.IsSet("target-accel") {
		s.TargetAccel = cmd.Float64("target-accel")
	}
	if cmd.IsSet("target-offset") {
		s.TargetOffset = cmd.Float64("target-offset")
	}
	if cmd.IsSet("log-level") {
		s.SetLogLevel(cmd.String("log-level"))
	}
}

func newParamPlanner() (*planner.Planner, error) {
	p, err := planner.New(
		planner.NewParamPositionProvider(),
		planner.NewParamTargetProvider(),
		planner.LimitsFromSettings(ms.Settings),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid settings, set a target jerk with 'mtsc settings' or --target-jerk")
	}
	return p, nil
}

func egoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:     "v-ego",
			Aliases:  []string{"v"},
			Usage:    "Current vehicle speed in m/s",
			Required: true,
		},
		&cli.Float64Flag{
			Name:    "a-ego",
			Aliases: []string{"a"},
			Usage:   "Current vehicle acceleration in m/s^2",
			Value:   0,
		},
	}
}

func targetCommand() *cli.Command {
	return &cli.Command{
		Name:  "target",
		Usage: "Runs one planning cycle against the current params and prints the target speed",
		Flags: append(egoFlags(), &cli.BoolFlag{
			Name:  "plan",
			Usage: "Also print every forward candidate",
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := newParamPlanner()
			if err != nil {
				return err
			}
			res := p.Update(cmd.Float64("v-ego"), cmd.Float64("a-ego"))
			if !res.Available {
				fmt.Println("position or target velocities unavailable")
			}
			fmt.Printf("target speed: %.2f m/s (%.1f km/h)\n", res.TargetSpeed, res.TargetSpeed*ms.MS_TO_KPH)
			if cmd.Bool("plan") {
				fmt.Print(formatCandidates(res.Plan))
			}
			return nil
		},
	}
}
