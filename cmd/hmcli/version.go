package main

import (
	"fmt"
	"strconv"
	"strings"
)

const HmcliVersion = "0.1.0"

// Set with -ldflags "-X main.gitSHA1=..." at build time.
var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildDate string = "unknown"
)

func version(gitSHA1, gitDirty string) string {
	version := HmcliVersion
	// Add git commit and working tree status when available
	if isCommit(gitSHA1) {
		version = fmt.Sprintf("%s (git:%s", version, gitSHA1)
		if dirtyInt, err := strconv.ParseInt(gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version = fmt.Sprintf("%s-dirty", version)
		}
		version = fmt.Sprintf("%s)", version)
	}
	if buildDate != "unknown" {
		version = fmt.Sprintf("%s built %s", version, buildDate)
	}
	return version
}

// isCommit reports whether s is a hex object name other than all zeros.
func isCommit(s string) bool {
	if s == "" || strings.Trim(s, "0") == "" {
		return false
	}
	return strings.Trim(strings.ToLower(s), "0123456789abcdef") == ""
}
