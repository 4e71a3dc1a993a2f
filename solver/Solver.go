// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON serialized into configuration files.
package solver

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	AdamW Type = "AdamW"
)

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

// LearnRateSetter is a Gorgonia Solver whose learning rate may be
// changed between steps
type LearnRateSetter interface {
	G.Solver
	LearnRate() float64
	SetLearnRate(float64)
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// LearnRate returns the current learning rate of the solver
func (s *Solver) LearnRate() (float64, error) {
	setter, ok := s.Solver.(LearnRateSetter)
	if !ok {
		return 0, fmt.Errorf("learnRate: solver %v has no adjustable "+
			"learning rate", s.Type)
	}
	return setter.LearnRate(), nil
}

// SetLearnRate sets the learning rate used by subsequent steps
func (s *Solver) SetLearnRate(lr float64) error {
	setter, ok := s.Solver.(LearnRateSetter)
	if !ok {
		return fmt.Errorf("setLearnRate: solver %v has no adjustable "+
			"learning rate", s.Type)
	}
	setter.SetLearnRate(lr)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	config, typeName, err := unmarshalConfig(
		data,
		"Type",
		"Config",
		map[string]reflect.Type{
			string(AdamW): reflect.TypeOf(AdamWConfig{}),
		})
	if err != nil {
		return err
	}

	s.Type = typeName
	s.Config = config
	s.Solver = s.Config.Create()

	return nil
}

// unmarshalConfig uses reflection to unmarshall a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(data []byte, typeJsonField, valueJsonField string,
	customTypes map[string]reflect.Type) (Config, Type, error) {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	var typeName string
	if err := json.Unmarshal(m[typeJsonField], &typeName); err != nil {
		return nil, "", fmt.Errorf("unmarshalConfig: invalid solver "+
			"type: %v", err)
	}

	ty, found := customTypes[typeName]
	if !found {
		return nil, "", fmt.Errorf("unmarshalConfig: unknown solver type %q",
			typeName)
	}
	value := reflect.New(ty)
	if err := json.Unmarshal(m[valueJsonField], value.Interface()); err != nil {
		return nil, "", err
	}

	return value.Elem().Interface().(Config), Type(typeName), nil
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool
}
