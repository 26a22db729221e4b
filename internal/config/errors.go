package config

import "fmt"

// ConfigError reports a missing or unusable setting. It is fatal at startup.
type ConfigError struct {
	Key  string
	Hint string
	Err  error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s is not set", e.Key)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
