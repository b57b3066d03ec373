package formatter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// VariableContext contains the data prompt variables resolve against.
type VariableContext struct {
	User string
	Host string
	// Dir is the working directory and Home the user's home, used to
	// abbreviate Dir as ~.
	Dir  string
	Home string
	// Tab is the zero-based index of the active session and Tabs the count.
	Tab  int
	Tabs int
	// Jobs is the number of background jobs.
	Jobs int
}

// Variables lists the names a template may use.
var Variables = []string{"user", "host", "cwd", "cwd-base", "tab", "tabs", "jobs"}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	// Resolve returns the string value for a given variable name and context.
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

// Resolve returns the string value for a variable from the context.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	switch varName {
	case "user":
		return ctx.User, nil
	case "host":
		return ctx.Host, nil
	case "cwd":
		return abbreviateHome(ctx.Dir, ctx.Home), nil
	case "cwd-base":
		if ctx.Dir == "" {
			return "", nil
		}
		return filepath.Base(ctx.Dir), nil
	// tab is one-based, as in the tab strip.
	case "tab":
		return strconv.Itoa(ctx.Tab + 1), nil
	case "tabs":
		return strconv.Itoa(ctx.Tabs), nil
	case "jobs":
		return strconv.Itoa(ctx.Jobs), nil
	default:
		return "", fmt.Errorf("unknown variable: %s (available: %s)", varName, strings.Join(Variables, ", "))
	}
}

func abbreviateHome(dir, home string) string {
	if home == "" || dir == "" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if strings.HasPrefix(dir, home+string(filepath.Separator)) {
		return "~" + dir[len(home):]
	}
	return dir
}
