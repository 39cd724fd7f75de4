package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references in content. Unresolved
// references are left in place and reported in missing, as the variable
// name or "NAME: message" for the :? form. Whole-line comments are copied
// untouched.
func substituteEnvVars(content string) (string, []string) {
	var missing []string

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			parts := envVarPattern.FindStringSubmatch(match)
			name, op, arg := parts[1], parts[2], parts[3]
			value, ok := os.LookupEnv(name)

			switch op {
			case ":-":
				if !ok || value == "" {
					return arg
				}
				return value
			case ":?":
				if !ok || value == "" {
					missing = append(missing, name+": "+strings.TrimSpace(arg))
					return match
				}
				return value
			default:
				if !ok {
					missing = append(missing, name)
					return match
				}
				return value
			}
		})
	}
	return strings.Join(lines, ""), missing
}
