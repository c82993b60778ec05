package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

// userRe matches one entry of "pm list users" output, e.g.
//
//	UserInfo{0:Owner:c13} running
//	UserInfo{10:Worker:410}
//
// The flags field and anything after the closing brace are ignored.
var userRe = regexp.MustCompile(`UserInfo\{(\d+):([^:]*):[^}]*\}`)

// parseUsers extracts user profiles from pm output. Lines that do not match
// are skipped rather than treated as fatal, so newer pm versions that add
// extra lines keep working.
func parseUsers(out string) []User {
	var users []User
	for _, line := range strings.Split(out, "\n") {
		m := userRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		users = append(users, User{ID: id, Name: m[2]})
	}
	return users
}

// parsePackages extracts package names from "pm list packages" output.
// Expected lines look like "package:com.example.app"; anything else is
// skipped.
func parsePackages(out string) []string {
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		name, ok := strings.CutPrefix(line, "package:")
		if !ok || name == "" {
			continue
		}
		pkgs = append(pkgs, name)
	}
	return pkgs
}
