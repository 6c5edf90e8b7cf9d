// Package manifest parses pip requirements manifests.
//
// The manifest is the build's only dependency input: an ordered list of
// (package, version constraint) pairs that must resolve without conflict.
// Parsing is deliberately strict: includes, editable installs, and
// installer options are rejected so the manifest stays self-contained and
// the resulting dependency layer stays a pure function of its bytes.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Requirement is a single manifest entry.
type Requirement struct {
	// Name is the package name as written.
	Name string

	// Extras are the bracketed extras, e.g. "standard" in uvicorn[standard].
	Extras []string

	// Constraint is the version constraint including operator, e.g. "==2.1.0".
	// Empty when the requirement is unpinned.
	Constraint string

	// Marker is the environment marker after ';', if any.
	Marker string

	// Line is the 1-based line number in the manifest.
	Line int

	// Raw is the original line text.
	Raw string
}

// Pinned reports whether the requirement is pinned to an exact version.
func (r Requirement) Pinned() bool {
	return strings.HasPrefix(r.Constraint, "==")
}

// Manifest is an ordered, parsed dependency manifest.
type Manifest struct {
	Path         string
	Requirements []Requirement
}

// requirementRe matches "name[extras]constraint" with optional whitespace.
// Constraint operators follow PEP 440.
var requirementRe = regexp.MustCompile(
	`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[A-Za-z0-9._,\s-]+\])?\s*((?:===|==|!=|<=|>=|<|>|~=)\s*v?[0-9][A-Za-z0-9!*+._-]*(?:\s*,\s*(?:===|==|!=|<=|>=|<|>|~=)\s*v?[0-9][A-Za-z0-9!*+._-]*)*)?\s*$`)

// canonicalRe collapses runs of separators for PEP 503 name comparison.
var canonicalRe = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a package name per PEP 503 so that
// "Torch", "torch" and "to_rch" compare correctly.
func CanonicalName(name string) string {
	return strings.ToLower(canonicalRe.ReplaceAllString(name, "-"))
}

// ParseError describes a manifest line that could not be parsed.
type ParseError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ConflictError describes two manifest entries that pin the same package
// to incompatible versions.
type ConflictError struct {
	Name   string
	First  Requirement
	Second Requirement
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting requirements for %s: %q (line %d) vs %q (line %d)",
		e.Name, e.First.Raw, e.First.Line, e.Second.Raw, e.Second.Line)
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse reads requirements from r, preserving order.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := stripComment(raw)
		if line == "" {
			continue
		}

		if reason := rejectedLineReason(line); reason != "" {
			return nil, &ParseError{Line: lineNo, Text: strings.TrimSpace(raw), Reason: reason}
		}

		spec, marker := splitMarker(line)
		match := requirementRe.FindStringSubmatch(spec)
		if match == nil {
			return nil, &ParseError{Line: lineNo, Text: strings.TrimSpace(raw), Reason: "invalid requirement"}
		}

		req := Requirement{
			Name:       match[1],
			Extras:     parseExtras(match[2]),
			Constraint: normalizeConstraint(match[3]),
			Marker:     marker,
			Line:       lineNo,
			Raw:        strings.TrimSpace(raw),
		}
		m.Requirements = append(m.Requirements, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return m, nil
}

// Validate checks the manifest for internal conflicts: the same package
// pinned to two different exact versions can never resolve.
func (m *Manifest) Validate() error {
	pins := make(map[string]Requirement)
	for _, req := range m.Requirements {
		if !req.Pinned() {
			continue
		}
		name := CanonicalName(req.Name)
		if prev, ok := pins[name]; ok && prev.Constraint != req.Constraint {
			return &ConflictError{Name: name, First: prev, Second: req}
		}
		pins[name] = req
	}
	return nil
}

// Unpinned returns the requirements that are not pinned to exact versions.
// These don't fail the build but break bit-for-bit layer reproducibility,
// so callers surface them as warnings.
func (m *Manifest) Unpinned() []Requirement {
	var out []Requirement
	for _, req := range m.Requirements {
		if !req.Pinned() {
			out = append(out, req)
		}
	}
	return out
}

// Names returns the canonical package names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Requirements))
	for _, req := range m.Requirements {
		names = append(names, CanonicalName(req.Name))
	}
	return names
}

// stripComment removes a trailing comment and surrounding whitespace.
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// splitMarker separates an environment marker from the requirement spec.
func splitMarker(line string) (spec, marker string) {
	if idx := strings.Index(line, ";"); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
	}
	return line, ""
}

// rejectedLineReason returns a non-empty reason when the line is a
// requirements feature the manifest contract forbids.
func rejectedLineReason(line string) string {
	switch {
	case strings.HasPrefix(line, "-r ") || strings.HasPrefix(line, "--requirement"):
		return "nested requirement files are not allowed, the manifest must be self-contained"
	case strings.HasPrefix(line, "-e ") || strings.HasPrefix(line, "--editable"):
		return "editable installs are not allowed"
	case strings.HasPrefix(line, "-"):
		return "installer options are not allowed in the manifest"
	case strings.Contains(line, "://"):
		return "URL requirements are not allowed"
	case strings.HasPrefix(line, ".") || strings.HasPrefix(line, "/"):
		return "local path requirements are not allowed"
	}
	return ""
}

func parseExtras(group string) []string {
	if group == "" {
		return nil
	}
	group = strings.Trim(group, "[]")
	parts := strings.Split(group, ",")
	extras := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			extras = append(extras, p)
		}
	}
	return extras
}

func normalizeConstraint(c string) string {
	return strings.ReplaceAll(strings.TrimSpace(c), " ", "")
}
