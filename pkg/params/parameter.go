package params

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"voxeltomo/internal/models"
)

// UnknownParameter is one row of the model vector m in A*m = d. Every
// variant is an immutable comparable value type, so structural equality
// (==) of two parameters of the same variant is identity equality; that is
// what duplicate detection relies on. String() is the canonical one-line
// serialization whose tokens ParseUnknownParameter consumes.
type UnknownParameter interface {
	// ParameterType returns the variant discriminant
	ParameterType() ParameterType

	// VariableType returns the perturbed physical quantity
	VariableType() VariableType

	// Position returns the parameter's anchor position
	Position() models.FullPosition

	// Size returns the physical weight of the parameter: a volume in km^3
	// for voxels, a thickness in km for layers, 1.0 for timing parameters
	Size() float64

	// String returns the canonical space-separated serialization
	String() string
}

// Physical3D is a voxel-anchored elastic parameter.
type Physical3D struct {
	// Variable is the perturbed physical quantity
	Variable VariableType

	// Pos is the voxel center position
	Pos models.FullPosition

	// Volume is the voxel's physical volume in km^3
	Volume float64
}

func (p Physical3D) ParameterType() ParameterType  { return TypeVoxel }
func (p Physical3D) VariableType() VariableType    { return p.Variable }
func (p Physical3D) Position() models.FullPosition { return p.Pos }
func (p Physical3D) Size() float64                 { return p.Volume }

func (p Physical3D) String() string {
	return fmt.Sprintf("VOXEL %s %s %s %s %s", p.Variable,
		ftoa(p.Pos.Latitude), ftoa(p.Pos.Longitude), ftoa(p.Pos.Radius), ftoa(p.Volume))
}

// Physical1D is a layer-anchored elastic parameter. Horizontal position is
// not meaningful for a 1-D parameter, so Position collapses lat/lon to
// (0, 0).
type Physical1D struct {
	// Variable is the perturbed physical quantity
	Variable VariableType

	// Radius is the layer center radius in km
	Radius float64

	// Thickness is the layer thickness in km
	Thickness float64
}

func (p Physical1D) ParameterType() ParameterType { return TypeLayer }
func (p Physical1D) VariableType() VariableType   { return p.Variable }
func (p Physical1D) Position() models.FullPosition {
	return models.FullPosition{Radius: p.Radius}
}
func (p Physical1D) Size() float64 { return p.Thickness }

func (p Physical1D) String() string {
	return fmt.Sprintf("LAYER %s %s %s", p.Variable, ftoa(p.Radius), ftoa(p.Thickness))
}

// TimeSourceSide is a source-side timing-correction unknown anchored to an
// event identity. Its size is the unit placeholder 1.0.
type TimeSourceSide struct {
	// EventID is the global catalog identifier of the event
	EventID string

	// Hypocenter is the event's source position, resolved from a catalog;
	// it is informational and not part of the serialized identity
	Hypocenter models.FullPosition
}

func (p TimeSourceSide) ParameterType() ParameterType  { return TypeSource }
func (p TimeSourceSide) VariableType() VariableType    { return TIME }
func (p TimeSourceSide) Position() models.FullPosition { return p.Hypocenter }
func (p TimeSourceSide) Size() float64                 { return 1 }

func (p TimeSourceSide) String() string {
	return fmt.Sprintf("SOURCE TIME %s 1.0", p.EventID)
}

// TimeReceiverSide is a receiver-side timing-correction unknown anchored to
// an observer identity and a bouncing order (count of surface or core
// reflections). Its size is the unit placeholder 1.0.
type TimeReceiverSide struct {
	// Station and Network identify the observer
	Station string
	Network string

	// Latitude and Longitude give the observer position in degrees
	Latitude  float64
	Longitude float64

	// BouncingOrder counts the reflections this correction applies to
	BouncingOrder int
}

func (p TimeReceiverSide) ParameterType() ParameterType { return TypeReceiver }
func (p TimeReceiverSide) VariableType() VariableType   { return TIME }
func (p TimeReceiverSide) Position() models.FullPosition {
	return models.FullPosition{Latitude: p.Latitude, Longitude: p.Longitude}
}
func (p TimeReceiverSide) Size() float64 { return 1 }

func (p TimeReceiverSide) String() string {
	return fmt.Sprintf("RECEIVER TIME %s %s %s %s %d 1.0",
		p.Station, p.Network, ftoa(p.Latitude), ftoa(p.Longitude), p.BouncingOrder)
}

// EventCatalog resolves event IDs to hypocenters when SOURCE parameters are
// deserialized. A nil catalog is allowed; hypocenters then stay zero.
type EventCatalog map[string]models.FullPosition

// ParseUnknownParameter rebuilds a parameter from its serialized tokens.
// The first token selects the variant, which dictates the layout of the
// remaining tokens; the layouts mirror each variant's String() exactly.
//
// A SOURCE parameter's hypocenter is not serialized, so it is looked up in
// the catalog; an unknown event ID is reported and left with a zero
// hypocenter rather than failing the whole batch.
func ParseUnknownParameter(tokens []string, catalog EventCatalog) (UnknownParameter, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty parameter line")
	}
	pt, err := ParseParameterType(tokens[0])
	if err != nil {
		return nil, err
	}

	switch pt {
	case TypeVoxel:
		if len(tokens) != 6 {
			return nil, fmt.Errorf("VOXEL parameter needs 6 tokens, got %d", len(tokens))
		}
		variable, err := ParseVariableType(tokens[1])
		if err != nil {
			return nil, err
		}
		values, err := atofs(tokens[2:6])
		if err != nil {
			return nil, err
		}
		return Physical3D{
			Variable: variable,
			Pos:      models.FullPosition{Latitude: values[0], Longitude: values[1], Radius: values[2]},
			Volume:   values[3],
		}, nil

	case TypeLayer:
		if len(tokens) != 4 {
			return nil, fmt.Errorf("LAYER parameter needs 4 tokens, got %d", len(tokens))
		}
		variable, err := ParseVariableType(tokens[1])
		if err != nil {
			return nil, err
		}
		values, err := atofs(tokens[2:4])
		if err != nil {
			return nil, err
		}
		return Physical1D{Variable: variable, Radius: values[0], Thickness: values[1]}, nil

	case TypeSource:
		if len(tokens) != 4 {
			return nil, fmt.Errorf("SOURCE parameter needs 4 tokens, got %d", len(tokens))
		}
		if tokens[1] != TIME.String() {
			return nil, fmt.Errorf("SOURCE parameter must carry variable TIME, got %q", tokens[1])
		}
		if _, err := strconv.ParseFloat(tokens[3], 64); err != nil {
			return nil, fmt.Errorf("size field %q: %w", tokens[3], err)
		}
		p := TimeSourceSide{EventID: tokens[2]}
		if hypocenter, ok := catalog[p.EventID]; ok {
			p.Hypocenter = hypocenter
		} else if catalog != nil {
			log.WithField("event", p.EventID).Warn("event not found in catalog, hypocenter left unset")
		}
		return p, nil

	case TypeReceiver:
		if len(tokens) != 8 {
			return nil, fmt.Errorf("RECEIVER parameter needs 8 tokens, got %d", len(tokens))
		}
		if tokens[1] != TIME.String() {
			return nil, fmt.Errorf("RECEIVER parameter must carry variable TIME, got %q", tokens[1])
		}
		values, err := atofs(tokens[4:6])
		if err != nil {
			return nil, err
		}
		order, err := strconv.Atoi(tokens[6])
		if err != nil {
			return nil, fmt.Errorf("bouncing order %q: %w", tokens[6], err)
		}
		if _, err := strconv.ParseFloat(tokens[7], 64); err != nil {
			return nil, fmt.Errorf("size field %q: %w", tokens[7], err)
		}
		return TimeReceiverSide{
			Station:       tokens[2],
			Network:       tokens[3],
			Latitude:      values[0],
			Longitude:     values[1],
			BouncingOrder: order,
		}, nil
	}
	return nil, fmt.Errorf("unhandled parameter type %s", pt)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func atofs(tokens []string) ([]float64, error) {
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("numeric field %q: %w", tok, err)
		}
		values[i] = v
	}
	return values, nil
}

// splitTokens splits a serialized parameter line into its tokens.
func splitTokens(line string) []string {
	return strings.Fields(line)
}
