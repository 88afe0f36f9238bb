package adapter

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.]+)?`)

// ParseVersion extracts a version from probe output. Output containing a
// semantic version yields it in canonical form ("0.19" -> "0.19.0");
// otherwise the first non-empty line is returned as-is.
func ParseVersion(output string) string {
	for _, m := range versionPattern.FindAllString(output, -1) {
		v := "v" + m
		if semver.IsValid(v) {
			return strings.TrimPrefix(semver.Canonical(v), "v")
		}
	}

	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
