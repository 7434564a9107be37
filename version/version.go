package version //import "github.com/hondana-dev/hondana/version"

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// Semantic versioning: https://semver.org/
var Version = "0.2.1"

func GetCurrentVersion() string {
	return Version
}

// GetSchemaVersion returns the schema version of the given version, which is
// its minor version with patch zeroed: schema only changes on minor bumps.
func GetSchemaVersion(version string) string {
	return GetMinorVersion(version) + ".0"
}

// GetMinorVersion returns the major.minor prefix of a version string.
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) > 0
}

func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) >= 0
}

// SortVersion sorts a version list in ascending semver order and returns it.
func SortVersion(versions []string) []string {
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare("v"+versions[i], "v"+versions[j]) < 0
	})
	return versions
}
