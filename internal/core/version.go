package core

import (
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
)

// versionCache memoizes parsed schema versions and specifiers.  Schema
// versions are compared with PEP 440 ordering, which treats "0.10" as
// newer than "0.3".
type versionCache struct {
	mu   sync.Mutex
	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
}

var versions = newVersionCache()

func newVersionCache() *versionCache {
	return &versionCache{
		pep:  map[string]pep440.Version{},
		spec: map[string]pep440.Specifiers{},
	}
}

// pepVersion returns a parsed PEP 440 version, caching the result.
func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

// pepSpec returns parsed PEP 440 specifiers, caching the result.
func (c *versionCache) pepSpec(value string) (pep440.Specifiers, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.spec[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1. Unparseable versions sort before every
// parseable one and compare lexically among themselves.
func (c *versionCache) compare(a string, b string) int {
	v1, err1 := c.pepVersion(a)
	v2, err2 := c.pepVersion(b)
	switch {
	case err1 != nil && err2 != nil:
		return strings.Compare(a, b)
	case err1 != nil:
		return -1
	case err2 != nil:
		return 1
	}
	return v1.Compare(v2)
}

// CompareVersions orders two schema versions.
func CompareVersions(a string, b string) int {
	return versions.compare(a, b)
}

// VersionAtLeast reports whether version >= min.
func VersionAtLeast(version string, min string) bool {
	return versions.compare(version, min) >= 0
}

// VersionBefore reports whether version < bound.
func VersionBefore(version string, bound string) bool {
	return versions.compare(version, bound) < 0
}

// VersionSatisfies checks version against a specifier set such as
// ">=0.2,<0.4".
func VersionSatisfies(version string, specifiers string) (bool, error) {
	spec, err := versions.pepSpec(specifiers)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid version specifiers: " + specifiers).
			WithCause(err)
	}
	parsed, err := versions.pepVersion(version)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid schema version: " + version).
			WithCause(err)
	}
	return spec.Check(parsed), nil
}

// MustSatisfy is VersionSatisfies for specifiers known at compile time;
// an unparseable version simply does not satisfy.
func MustSatisfy(version string, specifiers string) bool {
	ok, err := VersionSatisfies(version, specifiers)
	if err != nil {
		return false
	}
	return ok
}
