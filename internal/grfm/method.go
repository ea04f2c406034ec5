package grfm

import (
	"fmt"
	"strings"
)

// Method selects how the total reaction is computed.
type Method int

const (
	NewtonEuler Method = iota
	InverseDynamics
)

var methodNames = map[string]Method{
	"newtoneuler":      NewtonEuler,
	"newton-euler":     NewtonEuler,
	"newton_euler":     NewtonEuler,
	"ne":               NewtonEuler,
	"inversedynamics":  InverseDynamics,
	"inverse-dynamics": InverseDynamics,
	"inverse_dynamics": InverseDynamics,
	"id":               InverseDynamics,
}

// ParseMethod matches name case-insensitively against the accepted spellings.
func ParseMethod(name string) (Method, error) {
	m, ok := methodNames[strings.ToLower(name)]
	if !ok {
		return 0, &ConfigurationError{Field: "method", Value: name, Wrapped: ErrUnknownMethod}
	}
	return m, nil
}

func (m Method) String() string {
	switch m {
	case NewtonEuler:
		return "newton-euler"
	case InverseDynamics:
		return "inverse-dynamics"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// MethodAliases lists the accepted spellings for m.
func MethodAliases(m Method) []string {
	switch m {
	case NewtonEuler:
		return []string{"newtoneuler", "newton-euler", "newton_euler", "ne"}
	case InverseDynamics:
		return []string{"inversedynamics", "inverse-dynamics", "inverse_dynamics", "id"}
	default:
		return nil
	}
}
