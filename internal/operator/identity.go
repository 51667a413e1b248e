// Package operator resolves who is running a CLI command.
package operator

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

// EnvVar names the environment variable holding the default operator.
const EnvVar = "FLOOR_ACTOR"

// Source records where an identity came from.
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceSystem Source = "system"
)

// Identity is the operator recorded as creator of new orders.
type Identity struct {
	ID     string
	Source Source
}

// lookupUser is replaced in tests.
var lookupUser = user.Current

// Current resolves the operator: the explicit flag value first, then
// FLOOR_ACTOR, then the login name of the OS user. A missing OS user is
// not an error; the identity is empty.
func Current(flag string) (Identity, error) {
	if flag != "" {
		return parse(flag, SourceFlag)
	}
	if v := os.Getenv(EnvVar); v != "" {
		return parse(v, SourceEnv)
	}
	u, err := lookupUser()
	if err != nil || u.Username == "" {
		return Identity{}, nil
	}
	return Identity{ID: u.Username, Source: SourceSystem}, nil
}

func parse(raw string, source Source) (Identity, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return Identity{}, fmt.Errorf("empty operator id from %s", source)
	}
	if strings.ContainsAny(id, " \t\n") {
		return Identity{}, fmt.Errorf("invalid operator id %q from %s: must not contain whitespace", raw, source)
	}
	return Identity{ID: id, Source: source}, nil
}
