// Package params implements the unknown-parameter bookkeeping of the
// inverse problem A*m = d: the closed family of parameter variants that
// form the rows of the model vector m, their text and binary
// serializations, and the ordered parameter-list files whose on-disk order
// fixes the column indices of every later pipeline stage.
package params

import "fmt"

// ParameterType discriminates the closed set of unknown-parameter variants.
// Its string form is the leading token of every serialized parameter line
// and drives deserialization dispatch.
type ParameterType int

const (
	// TypeLayer is a 1-D parameter anchored to a radial layer
	TypeLayer ParameterType = iota

	// TypeVoxel is a 3-D parameter anchored to a voxel
	TypeVoxel

	// TypeSource is a timing-correction parameter anchored to an event
	TypeSource

	// TypeReceiver is a timing-correction parameter anchored to an observer
	TypeReceiver
)

var parameterTypeNames = map[ParameterType]string{
	TypeLayer:    "LAYER",
	TypeVoxel:    "VOXEL",
	TypeSource:   "SOURCE",
	TypeReceiver: "RECEIVER",
}

func (t ParameterType) String() string {
	if name, ok := parameterTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParameterType(%d)", int(t))
}

// ParseParameterType parses the leading token of a serialized parameter.
func ParseParameterType(token string) (ParameterType, error) {
	for t, name := range parameterTypeNames {
		if name == token {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter type %q", token)
}

// VariableType names the physical quantity an unknown parameter perturbs.
type VariableType int

const (
	RHO VariableType = iota
	LAMBDA
	MU
	KAPPA
	Vp
	Vs
	TIME
)

var variableTypeNames = map[VariableType]string{
	RHO:    "RHO",
	LAMBDA: "LAMBDA",
	MU:     "MU",
	KAPPA:  "KAPPA",
	Vp:     "Vp",
	Vs:     "Vs",
	TIME:   "TIME",
}

func (v VariableType) String() string {
	if name, ok := variableTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VariableType(%d)", int(v))
}

// ParseVariableType parses a variable-type token such as "MU" or "Vs".
func ParseVariableType(token string) (VariableType, error) {
	for v, name := range variableTypeNames {
		if name == token {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variable type %q", token)
}
