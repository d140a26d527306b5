package scenario

import (
	"fmt"
	"strings"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Format renders rows as a fixed width table.
func Format(rows []Row) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%5s %6s %6s %6s %5s %4s %7s %8s %6s\n",
		"frame", "v_ego", "a_ego", "target", "data", "held", "forward", "feasible", "latch"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%5d %6.2f %6.2f %6.2f %5s %4s %7d %8d %6.2f\n",
			r.Frame, r.VEgo, r.AEgo, r.TargetSpeed, yesNo(r.Available), yesNo(r.Held), r.Forward, r.Feasible, r.Latch))
	}
	return sb.String()
}
