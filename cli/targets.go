package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	m "pfeifer.dev/mtsc/math"
	"pfeifer.dev/mtsc/params"
	"pfeifer.dev/mtsc/planner"
	ms "pfeifer.dev/mtsc/settings"
)

func unitFactor(units string) (float64, error) {
	switch units {
	case "ms":
		return 1, nil
	case "kph":
		return ms.KPH_TO_MS, nil
	case "mph":
		return ms.MPH_TO_MS, nil
	}
	return 0, errors.Errorf("unknown units %q, expected ms, kph or mph", units)
}

// TargetsFromGeoJSON reads Point features with a numeric velocity property in
// feature order. Any other geometry or a missing velocity is an error.
func TargetsFromGeoJSON(data []byte, property string, factor float64) ([]planner.SpeedTarget, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse geojson")
	}

	targets := make([]planner.SpeedTarget, 0, len(fc.Features))
	for i, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, errors.Errorf("feature %d is a %T, expected a point", i, f.Geometry)
		}
		velocity, ok := f.Properties[property].(float64)
		if !ok {
			return nil, errors.Errorf("feature %d has no numeric %s property", i, property)
		}
		targets = append(targets, planner.SpeedTarget{
			Pos:      m.NewPosition(point.Lat(), point.Lon()),
			Velocity: velocity * factor,
		})
	}
	return targets, nil
}

func targetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "Manage the map target velocities param",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Writes the points of a GeoJSON feature collection to the map target velocities param",
				ArgsUsage: "<targets.geojson>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "property",
						Usage: "The feature property holding the target velocity",
						Value: "velocity",
					},
					&cli.StringFlag{
						Name:  "units",
						Usage: "Units of the velocity property (ms, kph, mph)",
						Value: "ms",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Param file to write, defaults to the memory param",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("expected exactly one geojson file")
					}
					factor, err := unitFactor(cmd.String("units"))
					if err != nil {
						return err
					}
					data, err := os.ReadFile(cmd.Args().First())
					if err != nil {
						return errors.Wrap(err, "could not read geojson")
					}
					targets, err := TargetsFromGeoJSON(data, cmd.String("property"), factor)
					if err != nil {
						return err
					}
					out, err := planner.MarshalTargets(targets)
					if err != nil {
						return err
					}

					path := cmd.String("output")
					if path == "" {
						params.EnsureParamDirectories()
						path = params.ParamPath(params.MAP_TARGET_VELOCITIES, true)
					}
					if err := params.PutParam(path, out); err != nil {
						return errors.Wrap(err, "could not write target velocities")
					}
					fmt.Printf("wrote %d target velocities to %s\n", len(targets), path)
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Removes the map target velocities param",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					params.EnsureParamDirectories()
					path := params.ParamPath(params.MAP_TARGET_VELOCITIES, true)
					if err := params.RemoveParam(path); err != nil {
						return errors.Wrap(err, "could not clear target velocities")
					}
					fmt.Printf("cleared %s\n", path)
					return nil
				},
			},
		},
	}
}
