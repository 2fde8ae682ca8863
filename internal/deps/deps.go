package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program the gallery commands shell out to and
// the configured command used to find it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for one Requirement. Path holds the resolved
// executable when the command was found on PATH.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// CheckBinaries resolves every requirement against PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, lookup(req))
	}
	return results
}

// Missing returns the statuses that were not found. Optional requirements are
// included only when includeOptional is set.
func Missing(statuses []Status, includeOptional bool) []Status {
	var missing []Status
	for _, status := range statuses {
		if status.Available || (status.Optional && !includeOptional) {
			continue
		}
		missing = append(missing, status)
	}
	return missing
}

func lookup(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}
