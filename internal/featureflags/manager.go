// Package featureflags evaluates FEATURE_FLAGS toggles such as
// "analytics=on,smart_replies=25%".
package featureflags

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Analytics gates the analytics readout route.
const Analytics = "analytics"

// rollout is the share of users, 0 to 100, a flag is on for.
type rollout int

const (
	off rollout = 0
	on  rollout = 100
)

// defaults apply unless FEATURE_FLAGS names the flag explicitly.
var defaults = map[string]rollout{
	Analytics: on,
}

// Manager holds parsed flags. A nil Manager reports every flag off.
type Manager struct {
	flags map[string]rollout
}

// Parse reads a comma-separated name=value list on top of the built-in
// defaults. Values are on/true/1, off/false/0 or a percentage. Malformed
// entries are skipped and reported in the returned error; the Manager is
// usable either way.
func Parse(raw string) (*Manager, error) {
	m := &Manager{flags: make(map[string]rollout, len(defaults))}
	for name, r := range defaults {
		m.flags[name] = r
	}
	var errs []error

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, found := strings.Cut(entry, "=")
		name = normalize(name)
		if !found || name == "" {
			errs = append(errs, fmt.Errorf("feature flag %q: expected name=value", entry))
			continue
		}
		r, err := parseRollout(normalize(value))
		if err != nil {
			errs = append(errs, fmt.Errorf("feature flag %q: %w", name, err))
			continue
		}
		m.flags[name] = r
	}
	return m, errors.Join(errs...)
}

func parseRollout(value string) (rollout, error) {
	switch value {
	case "on", "true", "1":
		return on, nil
	case "off", "false", "0":
		return off, nil
	}
	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return off, fmt.Errorf("unknown value %q", value)
	}
	n, err := strconv.Atoi(pct)
	if err != nil || n < 0 || n > 100 {
		return off, fmt.Errorf("invalid percentage %q", value)
	}
	return rollout(n), nil
}

// Enabled reports whether name is on for userID. Partial rollouts place each
// user in a stable bucket and are off for an empty userID.
func (m *Manager) Enabled(name, userID string) bool {
	if m == nil {
		return false
	}
	r, ok := m.flags[normalize(name)]
	switch {
	case !ok || r <= off:
		return false
	case r >= on:
		return true
	case userID == "":
		return false
	}
	return bucket(name, userID) < int(r)
}

// EnabledFeatures returns the sorted names of flags that are on for everyone.
func (m *Manager) EnabledFeatures() []string {
	out := []string{}
	if m == nil {
		return out
	}
	for name, r := range m.flags {
		if r >= on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % 100)
}
