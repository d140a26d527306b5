package cli

import (
	"fmt"
	"strings"

	"pfeifer.dev/mtsc/planner"
)

func candidateStatus(c planner.Candidate) string {
	switch {
	case !c.Evaluated:
		return "skipped"
	case c.Feasible:
		return "active"
	default:
		return "ahead"
	}
}

func formatCandidate(c planner.Candidate) string {
	if !c.Evaluated {
		return fmt.Sprintf("%6.2f m/s at %7.1f m  %s", c.Target.Velocity, c.Distance, candidateStatus(c))
	}
	return fmt.Sprintf("%6.2f m/s at %7.1f m  needs %7.1f m  %s", c.Target.Velocity, c.Distance, c.Required, candidateStatus(c))
}

func formatCandidates(plan planner.Plan) string {
	var sb strings.Builder
	for _, c := range plan.Forward {
		sb.WriteString(formatCandidate(c))
		sb.WriteString("\n")
	}
	return sb.String()
}
