package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a command that fails syntactically. Callers map it
// to the INVALID status; it never reflects world state.
var ErrMalformed = errors.New("malformed command")

// Invocation is the structured form of a raw command string. The parser
// is purely syntactic: names are not resolved and no preconditions are
// checked here.
type Invocation struct {
	Action string
	// Agents is the leading comma-separated agent list of a cooperative
	// command shape; empty for single-issuer commands.
	Agents  []string
	Targets []string
	// Preposition and Destination capture a trailing "IN <id>" or
	// "ON <id>" placement qualifier.
	Preposition string
	Destination string
}

// Parse turns a raw command string into an Invocation.
//
// Shape: ACTION [a1,a2,...] [target ...] [IN|ON destination]
func Parse(raw string) (Invocation, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return Invocation{}, fmt.Errorf("%w: empty command", ErrMalformed)
	}

	inv := Invocation{Action: strings.ToLower(tokens[0])}
	rest := tokens[1:]

	if len(rest) > 0 && strings.Contains(rest[0], ",") {
		agents, err := splitAgentList(rest[0])
		if err != nil {
			return Invocation{}, err
		}
		inv.Agents = agents
		rest = rest[1:]
	}

	if n := len(rest); n >= 2 && isPreposition(rest[n-2]) {
		inv.Preposition = strings.ToLower(rest[n-2])
		inv.Destination = rest[n-1]
		rest = rest[:n-2]
	} else if n >= 1 && isPreposition(rest[n-1]) {
		return Invocation{}, fmt.Errorf("%w: dangling preposition %q", ErrMalformed, rest[n-1])
	}

	for _, tok := range rest {
		if isPreposition(tok) {
			return Invocation{}, fmt.Errorf("%w: misplaced preposition %q", ErrMalformed, tok)
		}
		inv.Targets = append(inv.Targets, tok)
	}
	return inv, nil
}

func splitAgentList(tok string) ([]string, error) {
	parts := strings.Split(tok, ",")
	agents := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty agent id in %q", ErrMalformed, tok)
		}
		agents = append(agents, p)
	}
	if len(agents) < 2 {
		return nil, fmt.Errorf("%w: agent list %q needs at least two ids", ErrMalformed, tok)
	}
	return agents, nil
}

func isPreposition(tok string) bool {
	switch strings.ToLower(tok) {
	case "in", "on":
		return true
	}
	return false
}
