package network

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
	tanh     activationType = "tanh"
)

// Activation represents an activation function type
type Activation struct {
	activationType
	f func(x *G.Node) (*G.Node, error)
}

// fwd performs the forward pass of an Activation
func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// MarshalJSON implements the json.Marshaler interface
func (a *Activation) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a.activationType))
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *Activation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch activationType(name) {
	case relu:
		*a = *ReLU()
	case identity:
		*a = *Identity()
	case tanh:
		*a = *TanH()
	default:
		return fmt.Errorf("unmarshaljson: illegal Activation type %q", name)
	}
	return nil
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// ReLU returns a ReLU *Activation
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f:              G.Rectify,
	}
}

// TanH returns a tanh *Activation
func TanH() *Activation {
	return &Activation{
		activationType: tanh,
		f:              G.Tanh,
	}
}
