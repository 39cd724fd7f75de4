package config

import (
	"fmt"
	"strings"
)

// ConfigError collects everything wrong with one config file so a single
// load reports all of it.
type ConfigError struct {
	Path    string
	Missing []string // unresolved environment references
	Errors  []string // failed field checks
}

// Problems returns the missing variables and field errors as one list.
func (e *ConfigError) Problems() []string {
	problems := make([]string, 0, len(e.Missing)+len(e.Errors))
	for _, m := range e.Missing {
		problems = append(problems, "unset environment variable "+m)
	}
	return append(problems, e.Errors...)
}

func (e *ConfigError) Error() string {
	where := e.Path
	if where == "" {
		where = "config"
	}

	problems := e.Problems()
	switch len(problems) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s: %s", where, problems[0])
	}
	return fmt.Sprintf("%s: %d problems: %s", where, len(problems), strings.Join(problems, "; "))
}

// HasErrors reports whether anything was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
