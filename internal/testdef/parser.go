package testdef

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tmsync/pkg/logging"
)

// ParseRequest names the local file to read and, for plans, the subplan.
type ParseRequest struct {
	Path    string
	Kind    Kind
	SubPlan string
}

// Parser turns a local test asset into a scenario/step tree.
type Parser interface {
	Parse(ctx context.Context, req ParseRequest) (*Tree, error)
}

// document is the on-disk shape read by YAMLParser.
type document struct {
	Kind     Kind        `yaml:"kind"`
	Cases    []LocalCase `yaml:"cases"`
	SubPlans []subPlan   `yaml:"subPlans"`
}

type subPlan struct {
	Name   string      `yaml:"name"`
	StepID string      `yaml:"stepId"`
	Cases  []LocalCase `yaml:"cases"`
}

// YAMLParser reads a tree that has already been exported from the
// spreadsheet format as YAML or JSON.
type YAMLParser struct{}

// NewYAMLParser returns a parser for exported YAML/JSON trees.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse implements Parser.
func (p *YAMLParser) Parse(ctx context.Context, req ParseRequest) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Path == "" {
		return nil, Invalid("path", "no local file given")
	}
	if req.Kind == KindPlan && req.SubPlan == "" {
		return nil, Invalid("subplan", "required for plan files")
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ValidationError{Field: "path", Msg: "local file not found", Err: err}
		}
		return nil, &ValidationError{Field: "path", Msg: "cannot read local file", Err: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, Invalid("path", "%s is empty", req.Path)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Field: "path", Msg: "cannot parse " + req.Path, Err: err}
	}
	if doc.Kind != "" && doc.Kind != req.Kind {
		return nil, Invalid("path", "%s is a %s file, not a %s", req.Path, doc.Kind, req.Kind)
	}

	var tree *Tree
	switch req.Kind {
	case KindPlan:
		tree, err = planTree(req, doc)
	default:
		tree, err = scriptTree(req, doc)
	}
	if err != nil {
		return nil, err
	}

	logging.Debug("Parser", "Parsed %s: %d scenarios", req.Path, len(tree.Cases))
	return tree, nil
}

func scriptTree(req ParseRequest, doc document) (*Tree, error) {
	scriptName := strings.TrimSuffix(filepath.Base(req.Path), filepath.Ext(req.Path))
	cases := make([]LocalCase, 0, len(doc.Cases))
	for i, c := range doc.Cases {
		if strings.TrimSpace(c.ScenarioName) == "" {
			return nil, Invalid("cases", "case %d has no scenario name", i)
		}
		if c.ScriptName == "" {
			c.ScriptName = scriptName
		}
		cases = append(cases, c)
	}
	return &Tree{Path: req.Path, Kind: KindScript, Cases: cases}, nil
}

func planTree(req ParseRequest, doc document) (*Tree, error) {
	var selected *subPlan
	for i := range doc.SubPlans {
		if doc.SubPlans[i].Name == req.SubPlan {
			selected = &doc.SubPlans[i]
			break
		}
	}
	if selected == nil {
		return nil, Invalid("subplan", "%q not found in %s", req.SubPlan, req.Path)
	}

	tree := &Tree{Path: req.Path, Kind: KindPlan, SubPlan: selected.Name, StepID: selected.StepID}
	byScript := make(map[string]int)
	for i, c := range selected.Cases {
		if strings.TrimSpace(c.ScenarioName) == "" {
			return nil, Invalid("cases", "case %d has no scenario name", i)
		}
		if c.ScriptName == "" || c.Row == nil {
			return nil, Invalid("cases", "plan case %q needs a script name and a row", c.ScenarioName)
		}
		tree.Cases = append(tree.Cases, c)

		idx, ok := byScript[c.ScriptName]
		if !ok {
			idx = len(tree.PlanSteps)
			byScript[c.ScriptName] = idx
			tree.PlanSteps = append(tree.PlanSteps, Tree{Path: c.ScriptName, Kind: KindScript})
		}
		tree.PlanSteps[idx].Cases = append(tree.PlanSteps[idx].Cases, c)
	}
	return tree, nil
}
