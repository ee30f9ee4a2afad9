package params

import (
	"strings"
	"testing"

	"voxeltomo/internal/models"
)

func representativeParameters() []UnknownParameter {
	return []UnknownParameter{
		Physical3D{
			Variable: MU,
			Pos:      models.FullPosition{Latitude: -20.5, Longitude: 130.25, Radius: 3505},
			Volume:   1.25e7,
		},
		Physical1D{Variable: Vs, Radius: 3555, Thickness: 50},
		TimeSourceSide{EventID: "200503261234A"},
		TimeReceiverSide{Station: "ABC", Network: "IU", Latitude: 35.5, Longitude: -120.75, BouncingOrder: 1},
	}
}

// TestSerializeParseRoundTrip checks serialize(parse(serialize(p))) ==
// serialize(p) for a representative parameter of every variant.
func TestSerializeParseRoundTrip(t *testing.T) {
	for _, p := range representativeParameters() {
		t.Run(p.ParameterType().String(), func(t *testing.T) {
			line := p.String()
			parsed, err := ParseUnknownParameter(strings.Fields(line), nil)
			if err != nil {
				t.Fatalf("Failed to parse %q: %v", line, err)
			}
			if parsed.String() != line {
				t.Errorf("Round trip changed the line:\n got %q\nwant %q", parsed.String(), line)
			}
			if parsed != p {
				t.Errorf("Round trip changed the value: got %#v, want %#v", parsed, p)
			}
		})
	}
}

func TestParameterTokenLayouts(t *testing.T) {
	cases := map[string]UnknownParameter{
		"VOXEL MU -20.5 130.25 3505 1.25e+07":   representativeParameters()[0],
		"LAYER Vs 3555 50":                      representativeParameters()[1],
		"SOURCE TIME 200503261234A 1.0":         representativeParameters()[2],
		"RECEIVER TIME ABC IU 35.5 -120.75 1 1.0": representativeParameters()[3],
	}
	for line, p := range cases {
		if p.String() != line {
			t.Errorf("String() = %q, want %q", p.String(), line)
		}
	}
}

func TestParseDispatchRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"",
		"PIXEL MU 1 2 3 4",
		"VOXEL MU 1 2 3",
		"VOXEL WAT 1 2 3 4",
		"VOXEL MU one 2 3 4",
		"LAYER Vs 3555",
		"SOURCE Vs 200503261234A 1.0",
		"SOURCE TIME 200503261234A x",
		"RECEIVER TIME ABC IU 35.5 -120.75 one 1.0",
		"RECEIVER TIME ABC IU 35.5 -120.75 1",
	}
	for _, line := range cases {
		if _, err := ParseUnknownParameter(strings.Fields(line), nil); err == nil {
			t.Errorf("Line %q should be rejected", line)
		}
	}
}

func TestParseSourceResolvesHypocenterFromCatalog(t *testing.T) {
	catalog := EventCatalog{
		"200503261234A": {Latitude: -2.2, Longitude: 145.1, Radius: 6340},
	}

	p, err := ParseUnknownParameter(strings.Fields("SOURCE TIME 200503261234A 1.0"), catalog)
	if err != nil {
		t.Fatal(err)
	}
	source, ok := p.(TimeSourceSide)
	if !ok {
		t.Fatalf("Parsed type %T, want TimeSourceSide", p)
	}
	if source.Hypocenter != catalog["200503261234A"] {
		t.Errorf("Hypocenter = %v, want %v", source.Hypocenter, catalog["200503261234A"])
	}

	// an unknown event is reported but does not fail the parse
	p, err = ParseUnknownParameter(strings.Fields("SOURCE TIME 999999X 1.0"), catalog)
	if err != nil {
		t.Fatalf("Unknown event should not fail the parse: %v", err)
	}
	if p.Position() != (models.FullPosition{}) {
		t.Errorf("Unresolved hypocenter = %v, want zero", p.Position())
	}
}

func TestStructuralEquality(t *testing.T) {
	a := representativeParameters()
	b := representativeParameters()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Structurally identical parameters %v and %v compare unequal", a[i], b[i])
		}
	}
	// differing size makes a 3-D parameter a different unknown
	changed := a[0].(Physical3D)
	changed.Volume *= 2
	if UnknownParameter(changed) == a[0] {
		t.Error("Parameters with different volumes must compare unequal")
	}
}

func TestPhysical1DPositionCollapsesToAxis(t *testing.T) {
	p := Physical1D{Variable: MU, Radius: 3505, Thickness: 50}
	pos := p.Position()
	if pos.Latitude != 0 || pos.Longitude != 0 {
		t.Errorf("1-D parameter position = %v, want lat/lon (0, 0)", pos)
	}
	if pos.Radius != 3505 {
		t.Errorf("1-D parameter radius = %v, want 3505", pos.Radius)
	}
}

func TestBinaryRecordRoundTrip(t *testing.T) {
	orig := representativeParameters()[0].(Physical3D)

	data, err := orig.MarshalBinary()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if len(data) != BinaryRecordSize {
		t.Fatalf("Record is %d bytes, want %d", len(data), BinaryRecordSize)
	}
	if got := string(data[:10]); got != "MU        " {
		t.Errorf("Name field = %q, want %q", got, "MU        ")
	}

	var read Physical3D
	if err := read.UnmarshalBinary(data); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if read != orig {
		t.Errorf("Binary round trip = %#v, want %#v", read, orig)
	}

	if err := read.UnmarshalBinary(data[:41]); err == nil {
		t.Error("Truncated record should be rejected")
	}
}

func TestParameterTypeParse(t *testing.T) {
	for _, pt := range []ParameterType{TypeLayer, TypeVoxel, TypeSource, TypeReceiver} {
		got, err := ParseParameterType(pt.String())
		if err != nil {
			t.Fatalf("ParseParameterType(%s): %v", pt, err)
		}
		if got != pt {
			t.Errorf("ParseParameterType(%s) = %s", pt, got)
		}
	}
	if _, err := ParseParameterType("COLUMN"); err == nil {
		t.Error("Unknown type token should be rejected")
	}
}

func TestVariableTypeParse(t *testing.T) {
	for _, v := range []VariableType{RHO, LAMBDA, MU, KAPPA, Vp, Vs, TIME} {
		got, err := ParseVariableType(v.String())
		if err != nil {
			t.Fatalf("ParseVariableType(%s): %v", v, err)
		}
		if got != v {
			t.Errorf("ParseVariableType(%s) = %s", v, got)
		}
	}
	if _, err := ParseVariableType("vs"); err == nil {
		t.Error("Variable tokens are case sensitive")
	}
}
