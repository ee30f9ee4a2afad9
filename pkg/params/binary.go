package params

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"voxeltomo/internal/models"
)

// BinaryRecordSize is the fixed length of a serialized Physical3D record:
// a 10-byte space-padded ASCII variable-type name followed by four
// little-endian float64 values (latitude, longitude, radius, volume).
const BinaryRecordSize = 42

const variableNameBytes = 10

// MarshalBinary encodes the parameter as a fixed 42-byte record.
// Endianness is pinned to little-endian so records written by any build
// agree byte for byte.
func (p Physical3D) MarshalBinary() ([]byte, error) {
	name := p.Variable.String()
	if len(name) > variableNameBytes {
		return nil, fmt.Errorf("variable type name %q exceeds %d bytes", name, variableNameBytes)
	}

	buf := bytes.NewBuffer(make([]byte, 0, BinaryRecordSize))
	buf.WriteString(name)
	buf.WriteString(strings.Repeat(" ", variableNameBytes-len(name)))
	for _, v := range []float64{p.Pos.Latitude, p.Pos.Longitude, p.Pos.Radius, p.Volume} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("failed to encode parameter record: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a fixed 42-byte record written by MarshalBinary.
func (p *Physical3D) UnmarshalBinary(data []byte) error {
	if len(data) != BinaryRecordSize {
		return fmt.Errorf("parameter record must be %d bytes, got %d", BinaryRecordSize, len(data))
	}
	variable, err := ParseVariableType(strings.TrimRight(string(data[:variableNameBytes]), " "))
	if err != nil {
		return err
	}

	var values [4]float64
	r := bytes.NewReader(data[variableNameBytes:])
	for i := range values {
		if err := binary.Read(r, binary.LittleEndian, &values[i]); err != nil {
			return fmt.Errorf("failed to decode parameter record: %w", err)
		}
	}

	p.Variable = variable
	p.Pos = models.FullPosition{Latitude: values[0], Longitude: values[1], Radius: values[2]}
	p.Volume = values[3]
	return nil
}
