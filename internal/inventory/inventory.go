// Package inventory reads the current state of the device: user profiles,
// third-party packages, and which packages are visible for which user.
//
// The snapshot is rebuilt from the device on every run and discarded after;
// nothing is persisted. Parsers tolerate output drift between pm versions by
// skipping lines that do not match the expected shape.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/qumupam/qumupam/internal/adb"
)

// User is an OS-level user profile on the device.
type User struct {
	ID   int
	Name string
}

// IsMain reports whether this is the device owner profile.
func (u User) IsMain() bool {
	return u.ID == 0
}

// State is the visibility snapshot: for each read user, the set of
// third-party packages currently visible to them, plus the union of all
// third-party packages known to the device.
type State struct {
	Users    []User
	Visible  map[int]map[string]bool
	Universe []string
}

// IsVisible reports whether pkg is visible for the given user.
func (s *State) IsVisible(pkg string, userID int) bool {
	return s.Visible[userID][pkg]
}

// VisiblePackages returns the sorted packages visible for the given user.
func (s *State) VisiblePackages(userID int) []string {
	pkgs := make([]string, 0, len(s.Visible[userID]))
	for pkg := range s.Visible[userID] {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// Reader queries the device through the transport.
type Reader struct {
	t adb.Transport
}

// NewReader creates a Reader on the given transport.
func NewReader(t adb.Transport) *Reader {
	return &Reader{t: t}
}

// Users lists the user profiles on the device.
func (r *Reader) Users(ctx context.Context) ([]User, error) {
	out, err := r.t.PM(ctx, "list", "users")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := parseUsers(out)
	if len(users) == 0 {
		return nil, &ParseError{Op: "list users", Output: out}
	}
	return users, nil
}

// AllPackages lists every third-party package known to the device,
// regardless of per-user visibility.
func (r *Reader) AllPackages(ctx context.Context) ([]string, error) {
	out, err := r.t.PM(ctx, "list", "packages", "-3")
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return parsePackages(out), nil
}

// Packages lists the third-party packages visible for one user.
func (r *Reader) Packages(ctx context.Context, userID int) ([]string, error) {
	out, err := r.t.PM(ctx, "list", "packages", "--user", fmt.Sprint(userID), "-3")
	if err != nil {
		return nil, fmt.Errorf("listing packages for user %d: %w", userID, err)
	}
	return parsePackages(out), nil
}

// Snapshot reads the full visibility state for the given users. The snapshot
// must be complete before any operation executes, so that planning works from
// a consistent view of the device.
func (r *Reader) Snapshot(ctx context.Context, users []User) (*State, error) {
	all, err := r.AllPackages(ctx)
	if err != nil {
		return nil, err
	}

	universe := make(map[string]bool, len(all))
	for _, pkg := range all {
		universe[pkg] = true
	}

	visible := make(map[int]map[string]bool, len(users))
	for _, u := range users {
		pkgs, err := r.Packages(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(pkgs))
		for _, pkg := range pkgs {
			set[pkg] = true
			universe[pkg] = true
		}
		visible[u.ID] = set
	}

	sorted := make([]string, 0, len(universe))
	for pkg := range universe {
		sorted = append(sorted, pkg)
	}
	sort.Strings(sorted)

	return &State{
		Users:    append([]User(nil), users...),
		Visible:  visible,
		Universe: sorted,
	}, nil
}
