package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const templateHeader = `# racetimer configuration
#
# Durations use Go syntax (1s, 250ms, 1h30m). A max_duration of 0s accepts
# timers of any length. Relative paths are resolved against the project root. Environment variables (RACETIMER_*) and command
# line flags override these values.
`

// DefaultYAML renders Default() as a config file that LoadConfig reads back
// unchanged.
func DefaultYAML() ([]byte, error) {
	m, err := structToMap(Default())
	if err != nil {
		return nil, fmt.Errorf("convert defaults: %w", err)
	}
	stringifyDurations(m)

	body, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	return append([]byte(templateHeader), body...), nil
}

// stringifyDurations rewrites nested time.Duration values as duration strings
// so YAML output stays human readable.
func stringifyDurations(m map[string]interface{}) {
	for k, v := range m {
		switch val := v.(type) {
		case time.Duration:
			m[k] = val.String()
		case map[string]interface{}:
			stringifyDurations(val)
		}
	}
}
