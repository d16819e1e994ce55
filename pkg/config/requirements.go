package config

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Requirement represents a single line of a Python requirements.txt-style
// file. This is not a full-fledged parser - just the bits we care about when
// reporting what an install step is about to do.
type Requirement struct {
	Name    string
	Version string

	// Literal is the string value this Requirement was parsed from.
	Literal string

	// Parsed indicates whether Name and Version are valid. If false, only
	// Literal should be read.
	Parsed bool
}

var pinnedRequirementRegexp = regexp.MustCompile(`^([a-zA-Z0-9_.\-]+)\s*==\s*([a-zA-Z0-9_.\-+]+)\s*(?:;.*)?$`)

// ParseRequirement attempts to split a pinned `name==version` line.
// Anything else (URLs, markers, ranges, editable installs) passes through as
// a literal.
func ParseRequirement(line string) Requirement {
	req := Requirement{Literal: line}
	matches := pinnedRequirementRegexp.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return req
	}
	req.Name = matches[1]
	req.Version = matches[2]
	req.Parsed = true
	return req
}

// ReadRequirements parses a requirements manifest, skipping blank lines,
// comments, and pip option lines.
func ReadRequirements(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reqs []Requirement
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		reqs = append(reqs, ParseRequirement(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}
