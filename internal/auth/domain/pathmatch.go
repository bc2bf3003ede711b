package domain

import "strings"

// MatchPath checks if the request path matches the rule path pattern.
// Supports three types of wildcards:
//  1. Full wildcard: "*" matches any path
//  2. Trailing wildcard: "prefix/*" matches any path starting with "prefix/" (greedy)
//  3. Mid-path wildcard: "/objects/*/move" matches paths with * as single segment
//
// Examples:
//   - "*" matches any path
//   - "/objects/*" matches "/objects/abc" and "/objects/abc/move"
//   - "/objects/*/move" matches "/objects/abc/move" but NOT "/objects/move"
func MatchPath(rulePath, requestPath string) bool {
	if rulePath == "*" {
		return true
	}

	// No wildcard: exact match required
	if !strings.Contains(rulePath, "*") {
		return rulePath == requestPath
	}

	// Trailing wildcard (/*): prefix match (greedy - matches remaining path)
	if strings.HasSuffix(rulePath, "/*") {
		prefix := strings.TrimSuffix(rulePath, "/*")
		return requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/")
	}

	// Mid-path wildcards: segment-by-segment matching, each * matches exactly
	// one segment
	ruleParts := strings.Split(rulePath, "/")
	requestParts := strings.Split(requestPath, "/")

	if len(ruleParts) != len(requestParts) {
		return false
	}

	for i := 0; i < len(ruleParts); i++ {
		if ruleParts[i] == "*" {
			continue
		}
		if ruleParts[i] != requestParts[i] {
			return false
		}
	}

	return true
}
