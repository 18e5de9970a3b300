// Package deps reports whether the external tools ncmconv shells out to can
// be found.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external executable.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional tools only limit some inputs; their absence is a warning.
	Optional bool
}

// Status is the result of checking one Requirement.
type Status struct {
	Requirement
	Available bool
	// Resolved is the absolute path found on PATH.
	Resolved string
	Detail   string
}

var lookPath = exec.LookPath

// Check resolves req.Command on PATH.
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}

	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := lookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Resolved = resolved
	return status
}

// CheckBinaries checks each requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = Check(req)
	}
	return results
}

// TranscoderRequirement describes the external transcoder. FLAC payloads
// convert without it, so it is optional.
func TranscoderRequirement(binary string) Requirement {
	return Requirement{
		Name:        "Transcoder",
		Command:     binary,
		Description: "Converts non-FLAC payloads to FLAC",
		Optional:    true,
	}
}

// MissingRequired returns the unavailable, non-optional statuses.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
