package instance

import "os"

// DefaultID is used when no platform identifier is present.
const DefaultID = "local"

var envKeys = []string{"ARTICLES_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the process instance identifier used to tag log lines.
func GetID() string {
	for _, key := range envKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return DefaultID
}
