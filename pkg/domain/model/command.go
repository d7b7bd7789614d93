package model

import "strings"

const maskedSecret = "**"

// Command is an external command line. Secrets are argument values that
// must never be printed; they are kept in the executed argv. A "user:pass"
// argument is matched per colon-separated part.
type Command struct {
	Name    string
	Args    []string
	Secrets []string
}

// NewCommand creates a Command without secrets
func NewCommand(name string, args ...string) *Command {
	return &Command{Name: name, Args: args}
}

// WithSecret marks values as secret and returns the command
func (c *Command) WithSecret(secrets ...string) *Command {
	for _, s := range secrets {
		if s != "" {
			c.Secrets = append(c.Secrets, s)
		}
	}
	return c
}

// String renders the command line with every secret replaced by "**"
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		parts = append(parts, quoteArg(c.mask(arg)))
	}
	return strings.Join(parts, " ")
}

func (c *Command) mask(arg string) string {
	if c.isSecret(arg) {
		return maskedSecret
	}
	if left, right, ok := strings.Cut(arg, ":"); ok && (c.isSecret(left) || c.isSecret(right)) {
		if c.isSecret(left) {
			left = maskedSecret
		}
		if c.isSecret(right) {
			right = maskedSecret
		}
		return left + ":" + right
	}
	return arg
}

func (c *Command) isSecret(s string) bool {
	for _, secret := range c.Secrets {
		if s == secret {
			return true
		}
	}
	return false
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\"'<>") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}
