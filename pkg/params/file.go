package params

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"gonum.org/v1/gonum/mat"
)

// ReadOptions control parameter-file deserialization.
type ReadOptions struct {
	// Catalog resolves event IDs of SOURCE parameters to hypocenters.
	// May be nil.
	Catalog EventCatalog

	// Strict turns duplicate parameters from a logged warning into an
	// error. A silently duplicated column corrupts the inversion with no
	// other symptom, so strict mode is recommended for new experiments;
	// the default stays tolerant for compatibility with existing files.
	Strict bool
}

// ReadUnknownParameterFile parses an unknown-parameter file line by line.
// The returned slice preserves file order exactly: that order fixes the
// column index used by every later pipeline file, so it is a schema, not
// just data.
//
// Duplicate entries (structurally equal parameters) are scanned for across
// the whole list. They are reported but kept — the list length always
// matches the file — unless opts.Strict is set, in which case the first
// duplicate pair fails the read.
func ReadUnknownParameterFile(path string, opts ReadOptions) ([]UnknownParameter, error) {
	lines, err := readParameterLines(path)
	if err != nil {
		return nil, err
	}

	parameters := make([]UnknownParameter, 0, len(lines))
	for i, line := range lines {
		p, err := ParseUnknownParameter(splitTokens(line), opts.Catalog)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		parameters = append(parameters, p)
	}

	if err := reportDuplicates(parameters, opts.Strict); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parameters, nil
}

// WriteUnknownParameterFile writes one parameter per line in list order.
// An existing file at path is never overwritten; the write fails instead.
func WriteUnknownParameterFile(path string, parameters []UnknownParameter) error {
	if len(parameters) == 0 {
		return fmt.Errorf("refusing to write empty parameter list")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create parameter file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range parameters {
		fmt.Fprintln(w, p.String())
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write parameter file: %w", err)
	}
	log.WithFields(log.Fields{"path": path, "parameters": len(parameters)}).
		Info("wrote unknown parameter file")
	return nil
}

// reportDuplicates scans the whole list pairwise for structurally equal
// parameters. Variants are comparable value types, so interface equality is
// structural equality.
func reportDuplicates(parameters []UnknownParameter, strict bool) error {
	for i := 0; i < len(parameters); i++ {
		for j := i + 1; j < len(parameters); j++ {
			if parameters[i] == parameters[j] {
				if strict {
					return fmt.Errorf("duplicate parameter at positions %d and %d: %s",
						i, j, parameters[i])
				}
				log.WithFields(log.Fields{
					"first":     i,
					"second":    j,
					"parameter": parameters[i].String(),
				}).Warn("duplicate unknown parameter")
			}
		}
	}
	return nil
}

// Index maps parameter identities to their column positions in the ordered
// list. It gives O(1) lookup without sacrificing the load-bearing insertion
// order; the slice stays the source of truth.
type Index map[UnknownParameter]int

// NewIndex builds an index over an ordered parameter list. If the list
// contains duplicates, the first occurrence wins.
func NewIndex(parameters []UnknownParameter) Index {
	idx := make(Index, len(parameters))
	for i, p := range parameters {
		if _, ok := idx[p]; !ok {
			idx[p] = i
		}
	}
	return idx
}

// Of returns the column position of a parameter.
func (idx Index) Of(p UnknownParameter) (int, bool) {
	i, ok := idx[p]
	return i, ok
}

// KnownParameter pairs a parameter identity with its solved (or externally
// supplied) scalar value. Lists of KnownParameter are deliberately slices,
// never maps: UnknownParameter has no total order, and a map would scramble
// the column ordering downstream files depend on.
type KnownParameter struct {
	Unknown UnknownParameter
	Value   float64
}

// ZipKnown pairs an ordered parameter list index-for-index with a raw value
// array, avoiding any recomputation of parameter identity when only values
// are new. A length mismatch is an error.
func ZipKnown(parameters []UnknownParameter, values []float64) ([]KnownParameter, error) {
	if len(parameters) != len(values) {
		return nil, fmt.Errorf("parameter count %d does not match value count %d",
			len(parameters), len(values))
	}
	known := make([]KnownParameter, len(parameters))
	for i, p := range parameters {
		known[i] = KnownParameter{Unknown: p, Value: values[i]}
	}
	return known, nil
}

// ZipKnownVec is ZipKnown for a solved model vector m as produced by the
// linear solver.
func ZipKnownVec(parameters []UnknownParameter, m *mat.VecDense) ([]KnownParameter, error) {
	if m == nil {
		return nil, fmt.Errorf("nil value vector")
	}
	values := make([]float64, m.Len())
	for i := range values {
		values[i] = m.AtVec(i)
	}
	return ZipKnown(parameters, values)
}

// ReadKnownParameterFile parses a known-parameter file: each line is a
// serialized unknown parameter followed by one trailing numeric value.
// Ordering and duplicate semantics match ReadUnknownParameterFile.
func ReadKnownParameterFile(path string, opts ReadOptions) ([]KnownParameter, error) {
	lines, err := readParameterLines(path)
	if err != nil {
		return nil, err
	}

	known := make([]KnownParameter, 0, len(lines))
	parameters := make([]UnknownParameter, 0, len(lines))
	for i, line := range lines {
		tokens := splitTokens(line)
		if len(tokens) < 2 {
			return nil, fmt.Errorf("%s: line %d: expected parameter tokens and a value", path, i+1)
		}
		value, err := strconv.ParseFloat(tokens[len(tokens)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: value field: %w", path, i+1, err)
		}
		p, err := ParseUnknownParameter(tokens[:len(tokens)-1], opts.Catalog)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		known = append(known, KnownParameter{Unknown: p, Value: value})
		parameters = append(parameters, p)
	}

	if err := reportDuplicates(parameters, opts.Strict); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return known, nil
}

// WriteKnownParameterFile writes one "parameter value" line per entry in
// list order. An existing file at path is never overwritten.
func WriteKnownParameterFile(path string, known []KnownParameter) error {
	if len(known) == 0 {
		return fmt.Errorf("refusing to write empty parameter list")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create parameter file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, k := range known {
		fmt.Fprintf(w, "%s %s\n", k.Unknown.String(), ftoa(k.Value))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write parameter file: %w", err)
	}
	log.WithFields(log.Fields{"path": path, "parameters": len(known)}).
		Info("wrote known parameter file")
	return nil
}

// readParameterLines returns the non-comment, non-blank lines of a
// parameter file in file order.
func readParameterLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
