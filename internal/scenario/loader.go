package scenario

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"toolprobe/pkg/logging"
)

// suiteFile is the YAML layout of a suite file.
type suiteFile struct {
	Name      string         `yaml:"name"`
	Scenarios []scenarioSpec `yaml:"scenarios"`
}

type scenarioSpec struct {
	Name          string         `yaml:"name"`
	Tool          string         `yaml:"tool"`
	Args          map[string]any `yaml:"args"`
	Timeout       time.Duration  `yaml:"timeout"`
	RequireString bool           `yaml:"require_string"`
	Expect        *expectSpec    `yaml:"expect"`
}

type expectSpec struct {
	Type     string `yaml:"type"`
	Key      string `yaml:"key"`
	KeyType  string `yaml:"key_type"`
	MinItems int    `yaml:"min_items"`
	Schema   any    `yaml:"schema"`
}

// LoadSuite loads scenario definitions from a YAML file, or from every YAML
// file below a directory in lexical order. String arguments are rendered as
// Go templates with the sprig functions and vars as data, e.g.
// {{ env "SYMBOL" | default "BTC/USDT:USDT" }}.
func LoadSuite(path string, vars map[string]any) ([]Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("suite path does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat suite path: %w", err)
	}

	if !info.IsDir() {
		return loadSuiteFile(path, vars)
	}

	var defs []Definition
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLFile(p) {
			return nil
		}
		fileDefs, err := loadSuiteFile(p, vars)
		if err != nil {
			return err
		}
		defs = append(defs, fileDefs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
	}

	logging.Debug("SuiteLoader", "Loaded %d scenarios from %s", len(defs), path)
	return defs, nil
}

func loadSuiteFile(path string, vars map[string]any) ([]Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var suite suiteFile
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	if len(suite.Scenarios) == 0 {
		return nil, fmt.Errorf("invalid suite in %s: no scenarios defined", path)
	}

	defs := make([]Definition, 0, len(suite.Scenarios))
	for i, spec := range suite.Scenarios {
		def, err := spec.definition(vars)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario %d in %s: %w", i+1, path, err)
		}
		defs = append(defs, def)
	}

	logging.Debug("SuiteLoader", "Loaded suite %q with %d scenarios from %s", suite.Name, len(defs), path)
	return defs, nil
}

func (s scenarioSpec) definition(vars map[string]any) (Definition, error) {
	if strings.TrimSpace(s.Tool) == "" {
		return Definition{}, fmt.Errorf("scenario %q: tool is required", s.Name)
	}

	args := make(map[string]any, len(s.Args))
	for k, v := range s.Args {
		rendered, err := renderValue(v, vars)
		if err != nil {
			return Definition{}, fmt.Errorf("scenario %q: argument %q: %w", s.Name, k, err)
		}
		args[k] = rendered
	}

	def := Definition{
		Name:                  s.Name,
		Tool:                  s.Tool,
		Args:                  args,
		Timeout:               s.Timeout,
		RequireStringResponse: s.RequireString,
	}

	if s.Expect != nil {
		expect, err := s.Expect.expectation()
		if err != nil {
			return Definition{}, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		def.Expect = expect
	}
	return def, nil
}

func (e expectSpec) expectation() (Expectation, error) {
	var parts []Expectation

	switch e.Type {
	case "":
	case "string":
		parts = append(parts, IsString())
	case "list":
		parts = append(parts, IsList())
	case "object":
		parts = append(parts, IsObject())
	default:
		return nil, fmt.Errorf("unknown expect type %q (want string, list or object)", e.Type)
	}

	if e.Key != "" {
		switch e.KeyType {
		case "", "list":
			parts = append(parts, ObjectWithListKey(e.Key))
		default:
			return nil, fmt.Errorf("unsupported key_type %q (want list)", e.KeyType)
		}
	}

	if e.MinItems > 0 {
		parts = append(parts, MinItems(e.MinItems))
	}

	if e.Schema != nil {
		schema, err := JSONSchema(normalizeYAML(e.Schema))
		if err != nil {
			return nil, err
		}
		parts = append(parts, schema)
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return All(parts...), nil
}

// renderValue renders every string inside v as a template.
func renderValue(v any, vars map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return renderString(t, vars)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			r, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			r, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func renderString(s string, vars map[string]any) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	tmpl, err := template.New("arg").Funcs(sprig.TxtFuncMap()).Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// normalizeYAML converts map[interface{}]interface{} left by YAML decoding of
// untyped values into map[string]any so JSON tooling accepts it.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
