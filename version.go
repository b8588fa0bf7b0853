// Package distillagent provides the version information for distill-agent.
package distillagent

// Version is the current version of distill-agent.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
