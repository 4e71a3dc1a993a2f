// Package envconfig creates environments from the ids stored in
// training configurations.
package envconfig

import (
	"sort"

	env "github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/environment/cube"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// EnvName stores the id of an environment that can be created with
// this package
type EnvName string

// Environments available for creation
const (
	Cube EnvName = cube.Name
)

var factories = map[EnvName]func() env.Environment{
	Cube: func() env.Environment { return cube.New() },
}

// Create returns the environment registered under name
func Create(name string) (env.Environment, error) {
	factory, ok := factories[EnvName(name)]
	if !ok {
		return nil, errs.New("create", errs.InvalidArgument,
			"no such environment %q, want one of %v", name, Names())
	}
	return factory(), nil
}

// Names returns the ids of all available environments
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
