package config

import "strings"

// Credential is a secret that may be absent. The zero value is the
// unconfigured variant.
type Credential struct {
	value string
}

func NewCredential(v string) Credential {
	return Credential{value: strings.TrimSpace(v)}
}

func (c Credential) Configured() bool { return c.value != "" }

// Value returns the raw secret. Only clients talking to the upstream need it.
func (c Credential) Value() string { return c.value }

// String masks all but the last 4 characters so a Credential is safe to log.
func (c Credential) String() string {
	if !c.Configured() {
		return "<unset>"
	}
	return mask(c.value)
}

func mask(val string) string {
	if len(val) > 4 {
		return "***" + val[len(val)-4:]
	}
	return "***"
}
