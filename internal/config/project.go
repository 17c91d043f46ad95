package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	cerrors "modelica-dae/internal/errors"
)

// ProjectConfig is the compiler's own declarative project file (modc.hcl):
// where to find library classes, which class to compile by default, and
// how to format output. Unlike Modelica source, whose parsing belongs to
// an external collaborator, this file is parsed directly with HCL.
type ProjectConfig struct {
	LibraryPaths []string
	DefaultClass string
	OutputFormat string
}

var projectSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "project"},
	},
}

var projectBlockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "library_paths"},
		{Name: "default_class"},
		{Name: "output_format"},
	},
}

// LoadProjectFile parses a modc.hcl project file. A missing file yields a
// zero-value ProjectConfig, not an error.
func LoadProjectFile(path string) (*ProjectConfig, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, cerrors.Config("failed to read project file", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, cerrors.Config(fmt.Sprintf("failed to parse project file %s", path), diags)
	}

	content, _, diags := file.Body.PartialContent(projectSchema)
	if diags.HasErrors() {
		return nil, cerrors.Config(fmt.Sprintf("failed to read project file %s", path), diags)
	}

	cfg := &ProjectConfig{OutputFormat: "json"}
	for _, block := range content.Blocks {
		if block.Type != "project" {
			continue
		}
		attrs, _, diags := block.Body.PartialContent(projectBlockSchema)
		if diags.HasErrors() {
			return nil, cerrors.Config(fmt.Sprintf("failed to read project block in %s", path), diags)
		}
		if attr, ok := attrs.Attributes["library_paths"]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, cerrors.Config("invalid library_paths", diags)
			}
			cfg.LibraryPaths = ctyStringList(val)
		}
		if attr, ok := attrs.Attributes["default_class"]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, cerrors.Config("invalid default_class", diags)
			}
			if val.Type() == cty.String {
				cfg.DefaultClass = val.AsString()
			}
		}
		if attr, ok := attrs.Attributes["output_format"]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, cerrors.Config("invalid output_format", diags)
			}
			if val.Type() == cty.String {
				cfg.OutputFormat = val.AsString()
			}
		}
	}

	return cfg, nil
}

func ctyStringList(val cty.Value) []string {
	if val.IsNull() || !val.CanIterateElements() {
		return nil
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() == cty.String {
			out = append(out, elem.AsString())
		}
	}
	return out
}
