package spec

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"

	"github.com/devicelab-dev/dirspec/pkg/core"
	"gopkg.in/yaml.v3"
)

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// Load reads and parses the spec document at path.
func Load(path string) (*Specification, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is the user-provided spec file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrNotFound.WithCause(err).At(path, 0)
		}
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	return Parse(data, path)
}

// Parse parses DIRSPEC content. Only the document shape is checked: the
// project and stages keys, and id and dirs on every stage. Directory entries,
// glob syntax and flow edges are left to the components that consume them.
func Parse(data []byte, sourcePath string) (*Specification, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, core.ErrParse.WithCause(err).At(sourcePath, yamlErrorLine(err))
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, core.ErrSchema.WithMessage("document root must be a mapping").At(sourcePath, root.Line)
	}

	if err := checkRoot(root, sourcePath); err != nil {
		return nil, err
	}

	var s Specification
	if err := root.Decode(&s); err != nil {
		return nil, core.ErrSchema.WithCause(err).At(sourcePath, yamlErrorLine(err))
	}
	for i := range s.Stages {
		s.Stages[i].Line = mappingValue(root, "stages").Content[i].Line
	}
	s.Source = sourcePath
	return &s, nil
}

func checkRoot(root *yaml.Node, sourcePath string) error {
	for _, key := range []string{"project", "stages"} {
		if mappingValue(root, key) == nil {
			return core.ErrSchema.WithMessagef("missing required key: %s", key).At(sourcePath, root.Line)
		}
	}

	stages := mappingValue(root, "stages")
	if stages.Kind != yaml.SequenceNode {
		return core.ErrSchema.WithMessage("stages must be a list").At(sourcePath, stages.Line)
	}

	for i, stage := range stages.Content {
		if stage.Kind != yaml.MappingNode {
			return core.ErrSchema.WithMessagef("stage %d must be a mapping", i).At(sourcePath, stage.Line)
		}
		if mappingValue(stage, "id") == nil || mappingValue(stage, "dirs") == nil {
			return core.ErrSchema.WithMessagef("stage %d must have 'id' and 'dirs'", i).At(sourcePath, stage.Line)
		}
		if dirs := mappingValue(stage, "dirs"); dirs.Kind != yaml.SequenceNode && dirs.Tag != "!!null" {
			return core.ErrSchema.WithMessagef("stage %d: dirs must be a list", i).At(sourcePath, dirs.Line)
		}
	}
	return nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// yamlErrorLine extracts the first "line N" from a yaml.v3 error message.
func yamlErrorLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
