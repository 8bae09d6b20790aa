package config

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// ValidationError is one structural validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors accumulates every failure found in one validation pass
// so a caller sees every problem at once rather than one at a time.
type ValidationErrors struct {
	Errors []ValidationError
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

func (v *ValidationErrors) HasErrors() bool { return len(v.Errors) > 0 }

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "no validation errors"
	}
	parts := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

var validLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}

// ValidateSettings checks the resolved top-level server settings:
// host/port/log_level well-formed.
func ValidateSettings(host, logLevel string, port int) *ValidationErrors {
	errs := &ValidationErrors{}

	if port == 0 {
		errs.Add("port", "port must not be 0")
	}

	if net.ParseIP(host) == nil && !isValidHostname(host) {
		errs.Add("host", fmt.Sprintf("%q is neither a valid IP address nor a valid RFC 1123 hostname", host))
	}

	if _, ok := validLogLevels[logLevel]; !ok {
		errs.Add("log_level", fmt.Sprintf("%q is not one of trace|debug|info|warn|error", logLevel))
	}

	return errs
}

var rfc1123Label = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// isValidHostname implements RFC 1123 hostname validation, recovered from
// original_source/src/config/types.rs.
func isValidHostname(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	labels := strings.Split(host, ".")
	for _, label := range labels {
		if !rfc1123Label.MatchString(label) {
			return false
		}
	}
	return true
}

// ValidateUniqueIDs checks that no two components in the same class share an
// identifier.
func ValidateUniqueIDs(class string, ids []string) *ValidationErrors {
	errs := &ValidationErrors{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			errs.Add(class, "identifier must not be empty")
			continue
		}
		if _, dup := seen[id]; dup {
			errs.Add(class, fmt.Sprintf("duplicate identifier %q", id))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs
}

// ValidateReferentialIntegrity checks that every query's source references
// and every reaction's query references resolve against the given id sets.
func ValidateReferentialIntegrity(queries []QueryConfigDTO, reactions []ReactionConfigDTO, sourceIDs, queryIDs map[string]struct{}) *ValidationErrors {
	errs := &ValidationErrors{}
	for _, q := range queries {
		for _, s := range q.Sources {
			if _, ok := sourceIDs[s]; !ok {
				errs.Add(fmt.Sprintf("queries[%s].sources", q.ID), fmt.Sprintf("references unregistered source %q", s))
			}
		}
	}
	for _, rc := range reactions {
		for _, q := range rc.Queries {
			if _, ok := queryIDs[q]; !ok {
				errs.Add(fmt.Sprintf("reactions[%s].queries", rc.ID), fmt.Sprintf("references unregistered query %q", q))
			}
		}
	}
	return errs
}

// ValidateJoins logs non-fatal warnings (it never fails registration) when a
// query's join descriptors reference a relationship label with no matching
// pattern in the query text, or an empty label/property — recovered from
// original_source/src/api/handlers.rs's LabelExtractor-based warnings (a
// supplemented feature the original cut dropped; see SPEC_FULL.md).
func ValidateJoins(queryText string, joins []JoinDescriptor) []string {
	var warnings []string
	labels := extractLabels(queryText)
	for _, j := range joins {
		if j.Label == "" {
			warnings = append(warnings, "join descriptor has an empty label")
		}
		if !containsLabel(labels, j.Label) {
			warnings = append(warnings, fmt.Sprintf("join label %q has no matching relationship pattern in the query", j.Label))
		}
		for _, k := range j.Keys {
			if k.Label == "" || k.Property == "" {
				warnings = append(warnings, fmt.Sprintf("join %q has a key component with an empty label or property", j.Label))
			}
		}
	}
	return warnings
}

var labelPattern = regexp.MustCompile(`\[:?([A-Za-z_][A-Za-z0-9_]*)\]`)

// extractLabels pulls relationship-type labels ("[:LABEL]") out of a Cypher-
// like query string. This is a best-effort textual scan, not a parse — the
// evaluator itself is out of scope.
func extractLabels(query string) []string {
	matches := labelPattern.FindAllStringSubmatch(query, -1)
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m[1])
	}
	return labels
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
