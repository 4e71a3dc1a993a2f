// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into model configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Uniform  Type = "Uniform"
	Gaussian Type = "Gaussian"
	Constant Type = "Constant"
	Zeroes   Type = "Zeroes"
)

// configTypes maps each Type to the concrete Config describing it
var configTypes = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
	Constant: reflect.TypeOf(ConstantConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type
}

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// New returns a new InitWFn described by c
func New(c Config) *InitWFn {
	return &InitWFn{initWFn: c.Create(), Type: c.Type(), Config: c}
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	var typed struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	ty, ok := configTypes[typed.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: no such InitWFn type %q", typed.Type)
	}

	value := reflect.New(ty)
	if len(typed.Config) > 0 {
		if err := json.Unmarshal(typed.Config, value.Interface()); err != nil {
			return fmt.Errorf("unmarshaljson: could not unmarshal %v "+
				"config: %v", typed.Type, err)
		}
	}

	*i = *New(value.Elem().Interface().(Config))
	return nil
}
