package ladder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"cerebrin.app/backend/internal/model"
)

var (
	ErrInvalidPermissions = errors.New("invalid permissions")
	ErrUnknownRule        = errors.New("unknown permission rule")
	ErrInvalidLevel       = errors.New("invalid permission level")
)

// Validate checks a full permissions document before it replaces an agent's
// rules. Every key must name a known resource/action (or "*") and every leaf
// must be a valid level.
func Validate(permissions []byte) error {
	if !gjson.ValidBytes(permissions) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidPermissions)
	}
	root := gjson.ParseBytes(permissions)
	if !root.IsObject() {
		return fmt.Errorf("%w: must be an object", ErrInvalidPermissions)
	}

	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		resource := key.String()
		if resource == wildcard {
			err = validateLevel(resource, value)
			return err == nil
		}
		if _, ok := known[Resource(resource)]; !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownRule, resource)
			return false
		}
		if !value.IsObject() {
			err = fmt.Errorf("%w: %s must be an object of action levels", ErrInvalidPermissions, resource)
			return false
		}
		value.ForEach(func(k, v gjson.Result) bool {
			action := k.String()
			if action != wildcard && !IsKnown(Resource(resource), Action(action)) {
				err = fmt.Errorf("%w: %s.%s", ErrUnknownRule, resource, action)
				return false
			}
			err = validateLevel(resource+"."+action, v)
			return err == nil
		})
		return err == nil
	})
	return err
}

func validateLevel(path string, v gjson.Result) error {
	if v.Type != gjson.String || !model.Decision(v.String()).IsValid() {
		return fmt.Errorf("%w at %s: must be allow, approval or deny", ErrInvalidLevel, path)
	}
	return nil
}

// SetRule writes one rule into permissions. The path is "<resource>.<action>",
// "<resource>.*" or "*".
func SetRule(permissions []byte, path string, level model.Decision) ([]byte, error) {
	if !level.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	segments, err := parseRulePath(path)
	if err != nil {
		return nil, err
	}
	if len(permissions) == 0 {
		permissions = []byte("{}")
	}
	if len(segments) == 2 {
		// A resource must hold an object before an action can be set under it.
		existing := gjson.GetBytes(permissions, Path(segments[0]))
		if existing.Exists() && !existing.IsObject() {
			permissions, err = sjson.DeleteBytes(permissions, Path(segments[0]))
			if err != nil {
				return nil, err
			}
		}
	}
	out, err := sjson.SetBytes(permissions, Path(segments...), string(level))
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", path, err)
	}
	return out, nil
}

func parseRulePath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == wildcard {
		return []string{wildcard}, nil
	}
	resource, action, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, path)
	}
	if _, known := known[Resource(resource)]; !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, path)
	}
	if action != wildcard && !IsKnown(Resource(resource), Action(action)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, path)
	}
	return []string{resource, action}, nil
}

// Summary renders the effective decision for every known resource/action,
// one "resource.action: decision" per line.
func Summary(agent *model.Agent) string {
	var b strings.Builder
	for _, r := range Resources() {
		for _, a := range known[r] {
			fmt.Fprintf(&b, "%s.%s: %s\n", r, a, Evaluate(agent, r, a))
		}
	}
	return b.String()
}
