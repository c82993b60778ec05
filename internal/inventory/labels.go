package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/qumupam/qumupam/internal/adb"
)

// aapt2Path is where sideloading guides place an on-device aapt2 binary.
const aapt2Path = "/data/local/tmp/aapt2"

// LabelResolver looks up human-readable application labels by running aapt2
// on the device against each package's APK. Results are cached per run.
// Everything here degrades to an empty label: a device without aapt2 just
// shows raw package names.
type LabelResolver struct {
	t         adb.Transport
	cache     map[string]string
	available *bool
}

// NewLabelResolver creates a resolver on the given transport.
func NewLabelResolver(t adb.Transport) *LabelResolver {
	return &LabelResolver{t: t, cache: make(map[string]string)}
}

// Available reports whether the on-device aapt2 binary responds. The result
// is cached for the lifetime of the resolver.
func (l *LabelResolver) Available(ctx context.Context) bool {
	if l.available != nil {
		return *l.available
	}
	_, err := l.t.Shell(ctx, aapt2Path, "version")
	ok := err == nil
	var cerr *adb.CommandError
	if errors.As(err, &cerr) && cerr.Code == 1 {
		// aapt2 exits 1 on some help/version invocations; it still works
		ok = true
	}
	l.available = &ok
	return ok
}

// Label returns the application label for a package, or "" if it cannot be
// determined.
func (l *LabelResolver) Label(ctx context.Context, pkg string) string {
	if label, ok := l.cache[pkg]; ok {
		return label
	}
	label := l.lookup(ctx, pkg)
	l.cache[pkg] = label
	return label
}

func (l *LabelResolver) lookup(ctx context.Context, pkg string) string {
	if !l.Available(ctx) {
		return ""
	}

	out, err := l.t.PM(ctx, "path", pkg)
	if err != nil {
		return ""
	}
	apk := strings.TrimPrefix(strings.TrimSpace(firstLine(out)), "package:")
	if apk == "" {
		return ""
	}

	badging, err := l.t.Shell(ctx, aapt2Path, "dump", "badging", apk)
	if err != nil {
		return ""
	}
	return parseLabel(badging)
}

// parseLabel extracts the label from "aapt2 dump badging" output, which
// contains a line like:
//
//	application-label:'Beat Saber'
func parseLabel(badging string) string {
	for _, line := range strings.Split(badging, "\n") {
		if !strings.HasPrefix(line, "application-label") {
			continue
		}
		start := strings.Index(line, "'")
		end := strings.LastIndex(line, "'")
		if start < 0 || end <= start {
			continue
		}
		return line[start+1 : end]
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
