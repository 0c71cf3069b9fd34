package isa

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileLoader loads a table from a YAML file on disk.
type FileLoader struct {
	Path string
}

// Load reads and parses the file.
func (l FileLoader) Load() (*Table, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", l.Path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a table from r.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return Parse(data)
}

// Parse parses a table from YAML. The mapping is walked as a node tree so
// that the declaration order of instructions survives.
func Parse(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInputFile, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedInputFile)
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping of instruction names",
			ErrMalformedInputFile, root.Line)
	}

	table := &Table{
		Definitions: make([]Definition, 0, len(root.Content)/2),
	}
	seen := make(map[string]int)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := resolve(root.Content[i])
		if isMergeKey(key) {
			return nil, fmt.Errorf("%w: line %d: merge keys are only allowed inside instruction records",
				ErrMalformedInputFile, key.Line)
		}
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("%w: line %d: instruction name must be a non-empty string",
				ErrMalformedInputFile, key.Line)
		}

		name := key.Value
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: line %d: instruction %q already defined on line %d",
				ErrMalformedInputFile, key.Line, name, prev)
		}
		seen[name] = key.Line

		def, err := parseDefinition(name, resolve(root.Content[i+1]))
		if err != nil {
			return nil, err
		}

		table.Definitions = append(table.Definitions, def)
	}

	return table, nil
}

func parseDefinition(name string, node *yaml.Node) (Definition, error) {
	def := Definition{Name: name}

	if node.Kind != yaml.MappingNode {
		return def, NewInstructionError(name, "",
			fmt.Errorf("%w: line %d: instruction record must be a mapping",
				ErrMalformedInputFile, node.Line))
	}

	fields := make(map[string]*yaml.Node)
	if err := collectFields(node, fields, 0); err != nil {
		return def, NewInstructionError(name, "", err)
	}

	impl, err := scalarField(name, FieldImplementation, fields)
	if err != nil {
		return def, err
	}
	def.Implementation = impl

	operands, err := operandsField(name, fields)
	if err != nil {
		return def, err
	}
	def.Operands = operands

	printName, err := scalarField(name, FieldPrintName, fields)
	if err != nil {
		return def, err
	}
	def.PrintName = printName

	return def, nil
}

// maxMergeDepth bounds merge key chains, which may otherwise loop through
// recursive aliases.
const maxMergeDepth = 32

// collectFields adds the fields of a mapping to fields. Keys already present
// win, so explicit keys override merged ones and earlier merge sources
// override later ones.
func collectFields(node *yaml.Node, fields map[string]*yaml.Node, depth int) error {
	if depth > maxMergeDepth {
		return fmt.Errorf("%w: line %d: merge keys nested too deeply",
			ErrMalformedInputFile, node.Line)
	}

	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := resolve(node.Content[i])
		v := resolve(node.Content[i+1])

		if isMergeKey(k) {
			merges = append(merges, v)
			continue
		}
		if _, ok := fields[k.Value]; !ok {
			fields[k.Value] = v
		}
	}

	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}

		for _, src := range sources {
			src = resolve(src)
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("%w: line %d: merge value must be a mapping or a list of mappings",
					ErrMalformedInputFile, src.Line)
			}
			if err := collectFields(src, fields, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" &&
		(node.Tag == "" || node.Tag == "!" || node.ShortTag() == "!!merge")
}

func scalarField(name, field string, fields map[string]*yaml.Node) (string, error) {
	node, ok := fields[field]
	if !ok || isNull(node) {
		return "", NewInstructionError(name, field, ErrMissingField)
	}

	if node.Kind != yaml.ScalarNode {
		return "", NewInstructionError(name, field,
			fmt.Errorf("%w: line %d: expected a string", ErrMalformedInputFile, node.Line))
	}

	return node.Value, nil
}

func operandsField(name string, fields map[string]*yaml.Node) ([]OperandSpec, error) {
	node, ok := fields[FieldOperands]
	if !ok || isNull(node) {
		return nil, NewInstructionError(name, FieldOperands, ErrMissingField)
	}

	if node.Kind != yaml.SequenceNode {
		return nil, NewInstructionError(name, FieldOperands,
			fmt.Errorf("%w: line %d: expected a sequence", ErrMalformedInputFile, node.Line))
	}

	specs := make([]OperandSpec, 0, len(node.Content))
	for i, entry := range node.Content {
		entry = resolve(entry)
		if entry.Kind != yaml.SequenceNode || len(entry.Content) != 2 {
			return nil, NewInstructionError(name, FieldOperands,
				fmt.Errorf("%w: line %d: operand %d must be a [mode, class] pair",
					ErrMalformedInputFile, entry.Line, i))
		}

		mode, class := resolve(entry.Content[0]), resolve(entry.Content[1])
		if mode.Kind != yaml.ScalarNode || class.Kind != yaml.ScalarNode {
			return nil, NewInstructionError(name, FieldOperands,
				fmt.Errorf("%w: line %d: operand %d entries must be strings",
					ErrMalformedInputFile, entry.Line, i))
		}

		specs = append(specs, OperandSpec{
			Mode:          mode.Value,
			RegisterClass: class.Value,
		})
	}

	return specs, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
