package cases

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"swiftcheck/internal/domain"
)

//go:embed builtin.yaml
var builtinFixture []byte

// BuiltinSource names the embedded table in errors and listings
const BuiltinSource = "builtin"

// fixtureFile is the on-disk layout of a cases document
type fixtureFile struct {
	Version int               `yaml:"version"`
	Cases   []domain.TestCase `yaml:"cases"`
}

// Parse decodes a fixture file holding exactly one YAML document. It does
// not validate the cases.
func Parse(r io.Reader, source string) ([]domain.TestCase, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fixtureFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &SchemaError{Source: source, Field: "document", Reason: err.Error()}
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		reason := "must be a single YAML document"
		if err != nil {
			reason += ": " + err.Error()
		}
		return nil, &SchemaError{Source: source, Field: "document", Reason: reason}
	}
	return f.Cases, nil
}

// ParseFile decodes the fixture file at path
func ParseFile(path string) ([]domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data), path)
}

// Builtin returns the embedded case table
func Builtin() (*Catalog, error) {
	cases, err := Parse(bytes.NewReader(builtinFixture), BuiltinSource)
	if err != nil {
		return nil, err
	}
	return NewCatalog(cases)
}

// Load returns the catalog for path: the built-in table when empty, a single
// file, or every fixture file under a directory.
func Load(path string, skipDirs []string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cases path does not exist: %s", path)
	}
	if !info.IsDir() {
		cases, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		return NewCatalog(cases)
	}

	files, err := NewScanner(skipDirs).Scan(path)
	if err != nil {
		return nil, err
	}
	var all []domain.TestCase
	for _, f := range files {
		cases, err := ParseFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}
	return NewCatalog(all)
}
