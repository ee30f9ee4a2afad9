package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"voxeltomo/internal/models"
)

func TestUnknownParameterFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unknowns.lst")

	orig := representativeParameters()
	if err := WriteUnknownParameterFile(path, orig); err != nil {
		t.Fatalf("Failed to write parameter file: %v", err)
	}

	read, err := ReadUnknownParameterFile(path, ReadOptions{})
	if err != nil {
		t.Fatalf("Failed to read parameter file back: %v", err)
	}
	if len(read) != len(orig) {
		t.Fatalf("Read %d parameters, want %d", len(read), len(orig))
	}
	for i := range orig {
		// file order fixes the inversion column order, so position i must
		// hold exactly the parameter written at position i
		if read[i] != orig[i] {
			t.Errorf("Parameter %d = %v, want %v", i, read[i], orig[i])
		}
	}
}

// TestDuplicatesAreReportedNotDropped feeds a list with two structurally
// identical voxel parameters through a write/read cycle: the read must warn
// but keep both entries.
func TestDuplicatesAreReportedNotDropped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unknowns.lst")

	dup := Physical3D{
		Variable: MU,
		Pos:      models.FullPosition{Latitude: 1, Longitude: 2, Radius: 3505},
		Volume:   1e6,
	}
	list := []UnknownParameter{dup, Physical1D{Variable: Vs, Radius: 3555, Thickness: 50}, dup}
	if err := WriteUnknownParameterFile(path, list); err != nil {
		t.Fatal(err)
	}

	var captured capturedLog
	logrus.AddHook(&captured)
	defer captured.remove(t)

	read, err := ReadUnknownParameterFile(path, ReadOptions{})
	if err != nil {
		t.Fatalf("Duplicates must not fail a tolerant read: %v", err)
	}
	if len(read) != 3 {
		t.Errorf("Read %d parameters, want 3 (duplicate kept)", len(read))
	}
	if !captured.sawWarning {
		t.Error("Duplicate parameters should be reported as a warning")
	}

	if _, err := ReadUnknownParameterFile(path, ReadOptions{Strict: true}); err == nil {
		t.Error("Strict mode should reject duplicates")
	}
}

// capturedLog is a logrus hook recording whether a warning was emitted.
type capturedLog struct {
	sawWarning bool
}

func (c *capturedLog) Levels() []logrus.Level { return []logrus.Level{logrus.WarnLevel} }

func (c *capturedLog) Fire(*logrus.Entry) error {
	c.sawWarning = true
	return nil
}

func (c *capturedLog) remove(t *testing.T) {
	t.Helper()
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
}

func TestWriteUnknownParameterFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unknowns.lst")

	if err := WriteUnknownParameterFile(path, representativeParameters()); err != nil {
		t.Fatal(err)
	}
	if err := WriteUnknownParameterFile(path, representativeParameters()); err == nil {
		t.Error("Writing over an existing file should fail")
	}
}

func TestReadUnknownParameterFileSkipsComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unknowns.lst")
	content := "# header comment\n\nLAYER MU 3505 50\n# trailing comment\nLAYER MU 3555 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	read, err := ReadUnknownParameterFile(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(read) != 2 {
		t.Errorf("Read %d parameters, want 2", len(read))
	}
}

func TestZipKnown(t *testing.T) {
	parameters := []UnknownParameter{
		Physical1D{Variable: MU, Radius: 3505, Thickness: 50},
		Physical1D{Variable: MU, Radius: 3555, Thickness: 50},
		Physical1D{Variable: MU, Radius: 3605, Thickness: 50},
		Physical1D{Variable: MU, Radius: 3655, Thickness: 50},
		Physical1D{Variable: MU, Radius: 3705, Thickness: 50},
	}
	values := []float64{0.1, -0.2, 0.3, -0.4, 0.5}

	known, err := ZipKnown(parameters, values)
	if err != nil {
		t.Fatalf("Failed to zip: %v", err)
	}
	for i, k := range known {
		if k.Unknown != parameters[i] || k.Value != values[i] {
			t.Errorf("Entry %d = (%v, %v), want (%v, %v)",
				i, k.Unknown, k.Value, parameters[i], values[i])
		}
	}

	if _, err := ZipKnown(parameters, values[:4]); err == nil {
		t.Error("Length-4 value array against 5 parameters should be rejected")
	}
}

func TestZipKnownVec(t *testing.T) {
	parameters := representativeParameters()
	m := mat.NewVecDense(len(parameters), []float64{1, 2, 3, 4})

	known, err := ZipKnownVec(parameters, m)
	if err != nil {
		t.Fatal(err)
	}
	if known[2].Value != 3 {
		t.Errorf("Value at index 2 = %v, want 3", known[2].Value)
	}

	short := mat.NewVecDense(len(parameters)-1, nil)
	if _, err := ZipKnownVec(parameters, short); err == nil {
		t.Error("Short solver vector should be rejected")
	}
	if _, err := ZipKnownVec(parameters, nil); err == nil {
		t.Error("Nil solver vector should be rejected")
	}
}

func TestKnownParameterFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowns.lst")

	parameters := representativeParameters()
	values := []float64{0.01, -0.02, 0.5, -1.25}
	orig, err := ZipKnown(parameters, values)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteKnownParameterFile(path, orig); err != nil {
		t.Fatalf("Failed to write known parameter file: %v", err)
	}

	read, err := ReadKnownParameterFile(path, ReadOptions{})
	if err != nil {
		t.Fatalf("Failed to read known parameter file back: %v", err)
	}
	if len(read) != len(orig) {
		t.Fatalf("Read %d entries, want %d", len(read), len(orig))
	}
	for i := range orig {
		if read[i] != orig[i] {
			t.Errorf("Entry %d = %+v, want %+v", i, read[i], orig[i])
		}
	}
}

func TestIndex(t *testing.T) {
	parameters := representativeParameters()
	idx := NewIndex(parameters)

	for i, p := range parameters {
		got, ok := idx.Of(p)
		if !ok || got != i {
			t.Errorf("Index of %v = %d, %v; want %d, true", p, got, ok, i)
		}
	}

	missing := Physical1D{Variable: KAPPA, Radius: 1000, Thickness: 10}
	if _, ok := idx.Of(missing); ok {
		t.Error("Index reported a position for an absent parameter")
	}
}
