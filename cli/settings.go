package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"pfeifer.dev/mtsc/params"
	"pfeifer.dev/mtsc/planner"
	ms "pfeifer.dev/mtsc/settings"
	"pfeifer.dev/mtsc/utils"
)

type settingsItem struct {
	Title string
	Desc  string
	Value func(s *ms.MtscSettings) string
	Set   func(s *ms.MtscSettings, input string) error
}

func floatSetting(title, desc string, field func(s *ms.MtscSettings) *float64) settingsItem {
	return settingsItem{
		Title: title,
		Desc:  desc,
		Value: func(s *ms.MtscSettings) string {
			return strconv.FormatFloat(*field(s), 'f', -1, 64)
		},
		Set: func(s *ms.MtscSettings, input string) error {
			val, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return errors.Wrap(err, "not a number")
			}
			*field(s) = val
			return nil
		},
	}
}

func getSettingsItems() []settingsItem {
	return []settingsItem{
		floatSetting("Target Jerk", "Jerk in m/s^3 used to ramp into the slow down, negative ramps acceleration down",
			func(s *ms.MtscSettings) *float64 { return &s.TargetJerk }),
		floatSetting("Target Acceleration", "Deceleration in m/s^2 held once the jerk ramp ends",
			func(s *ms.MtscSettings) *float64 { return &s.TargetAccel }),
		floatSetting("Target Offset", "Seconds at the target velocity added to the slow down distance",
			func(s *ms.MtscSettings) *float64 { return &s.TargetOffset }),
		{
			Title: "Log Level",
			Desc:  "How verbose logging is (debug, info, warn, error)",
			Value: func(s *ms.MtscSettings) string { return s.LogLevel },
			Set: func(s *ms.MtscSettings, input string) error {
				switch input {
				case "debug", "info", "warn", "error":
					s.LogLevel = input
					return nil
				}
				return errors.Errorf("unknown log level %q", input)
			},
		},
	}
}

// editSetting prompts for a new value and applies it to s.
func editSetting(item settingsItem, s *ms.MtscSettings) error {
	prompt := promptui.Prompt{
		Label:   item.Title,
		Default: item.Value(s),
		Validate: func(input string) error {
			probe := *s
			return item.Set(&probe, input)
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return err
	}
	return item.Set(s, result)
}

// saveSettings validates s as planner limits before persisting it.
func saveSettings(s *ms.MtscSettings) error {
	if err := planner.LimitsFromSettings(*s).Validate(); err != nil {
		return err
	}
	return s.Save()
}

func editSettings() error {
	s := ms.MtscSettings{}
	s.Load()
	items := getSettingsItems()

	for {
		labels := make([]string, 0, len(items)+2)
		for _, item := range items {
			labels = append(labels, fmt.Sprintf("%s: %s", item.Title, item.Value(&s)))
		}
		labels = append(labels, "Save Settings", "Exit")

		prompt := promptui.Select{
			Label: "Select Setting",
			Items: labels,
			Size:  len(labels),
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return errors.Wrap(err, "prompt failed")
		}

		switch {
		case idx < len(items):
			if err := editSetting(items[idx], &s); err != nil {
				fmt.Printf("Setting not changed: %v\n", err)
			} else {
				fmt.Println(items[idx].Desc)
			}
		case idx == len(items):
			if err := saveSettings(&s); err != nil {
				fmt.Printf("Settings not saved: %v\n", err)
				continue
			}
			fmt.Printf("Saved settings to %s\n", s.Path())
			return nil
		default:
			return nil
		}
	}
}

// storedParams lists the param names present in both param roots.
func storedParams() string {
	var sb strings.Builder
	for _, root := range []struct {
		label string
		isMem bool
	}{{"persistent", false}, {"memory", true}} {
		names, err := params.GetParams(root.isMem)
		if err != nil {
			utils.Logde(err)
			names = nil
		}
		if len(names) == 0 {
			sb.WriteString(fmt.Sprintf("%s params: none\n", root.label))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s params: %s\n", root.label, strings.Join(names, ", ")))
	}
	return sb.String()
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:    "settings",
		Aliases: []string{"s"},
		Usage:   "Interactively edit and save the stored settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Prints the effective settings",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					for _, item := range getSettingsItems() {
						fmt.Printf("%s: %s\n", item.Title, item.Value(&ms.Settings))
					}
					fmt.Print(storedParams())
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return editSettings()
		},
	}
}
