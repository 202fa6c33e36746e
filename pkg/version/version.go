// Package version provides the SDK version and its parsing and comparison
// helpers.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the SDK version of this module.
const Current = "1.1.0"

// Name identifies the SDK in client ids and tool output.
const Name = "shadowlink-go"

// SDKVersion is a parsed "major.minor.patch[-tag]" version.
type SDKVersion struct {
	Major uint16
	Minor uint16
	Patch uint16
	Tag   string
}

// Parse parses a "major.minor.patch" version with an optional "-tag".
func Parse(s string) (SDKVersion, error) {
	core, tag, hasTag := strings.Cut(s, "-")
	if hasTag && tag == "" {
		return SDKVersion{}, fmt.Errorf("invalid version %q: empty tag", s)
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return SDKVersion{}, fmt.Errorf("invalid version %q: expected major.minor.patch", s)
	}

	var nums [3]uint16
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil || p == "" {
			return SDKVersion{}, fmt.Errorf("invalid version %q: bad component %q", s, p)
		}
		nums[i] = uint16(n)
	}

	return SDKVersion{Major: nums[0], Minor: nums[1], Patch: nums[2], Tag: tag}, nil
}

// String returns the version as "major.minor.patch[-tag]".
func (v SDKVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Tag != "" {
		s += "-" + v.Tag
	}
	return s
}

// Compatible returns true if the other version has the same major version.
func (v SDKVersion) Compatible(other SDKVersion) bool {
	return v.Major == other.Major
}

// Less orders versions by major, minor, patch. A tagged version sorts
// before the untagged release with the same numbers.
func (v SDKVersion) Less(other SDKVersion) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	if v.Patch != other.Patch {
		return v.Patch < other.Patch
	}
	if (v.Tag == "") != (other.Tag == "") {
		return v.Tag != ""
	}
	return v.Tag < other.Tag
}

// String returns the SDK banner, e.g. "shadowlink-go/1.1.0".
func String() string {
	return Name + "/" + Current
}
