package yamlcfg

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// The native YAML format names list entries by a single-key mapping
// (`- icon: {...}`) or a bare scalar (`- icon`). The models below decode
// the payload of such entries; namedEntry splits off the name.

type fileModel struct {
	Name       string      `yaml:"name"`
	Parameters yaml.Node   `yaml:"parameters"`
	Cycles     []yaml.Node `yaml:"cycles"`
	Tasks      []yaml.Node `yaml:"tasks"`
	Data       struct {
		Available []yaml.Node `yaml:"available"`
		Generated []yaml.Node `yaml:"generated"`
	} `yaml:"data"`
}

type cycleModel struct {
	Cycling *cyclingModel `yaml:"cycling"`
	Tasks   []yaml.Node   `yaml:"tasks"`
}

type cyclingModel struct {
	StartDate string `yaml:"start_date"`
	StopDate  string `yaml:"stop_date"`
	Period    string `yaml:"period"`
}

type cycleTaskModel struct {
	Inputs  []yaml.Node `yaml:"inputs"`
	Outputs []yaml.Node `yaml:"outputs"`
	WaitOn  []yaml.Node `yaml:"wait_on"`
}

type refModel struct {
	Port       string            `yaml:"port"`
	Lag        flexList          `yaml:"lag"`
	Date       flexList          `yaml:"date"`
	When       *whenModel        `yaml:"when"`
	Parameters map[string]string `yaml:"parameters"`
}

type whenModel struct {
	At     string `yaml:"at"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

type outputModel struct {
	Port string `yaml:"port"`
}

type taskModel struct {
	Plugin     string   `yaml:"plugin"`
	Parameters []string `yaml:"parameters"`

	Computer      string            `yaml:"computer"`
	Host          string            `yaml:"host"`
	Account       string            `yaml:"account"`
	Uenv          map[string]string `yaml:"uenv"`
	Nodes         int               `yaml:"nodes"`
	Walltime      string            `yaml:"walltime"`
	NtasksPerNode int               `yaml:"ntasks_per_node"`
	Mem           int               `yaml:"mem"`
	CPUsPerTask   int               `yaml:"cpus_per_task"`

	Command        string      `yaml:"command"`
	Src            string      `yaml:"src"`
	EnvSourceFiles []string    `yaml:"env_source_files"`
	Bin            string      `yaml:"bin"`
	Namelists      []yaml.Node `yaml:"namelists"`
}

type dataModel struct {
	Src        string   `yaml:"src"`
	Format     string   `yaml:"format"`
	Computer   string   `yaml:"computer"`
	Parameters []string `yaml:"parameters"`
}

// flexList accepts a scalar or a sequence of scalars.
type flexList []string

func (l *flexList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = flexList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = flexList(ss)
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", node.Line)
	}
}

// namedEntry splits a named list entry into its name and payload node. The
// payload is nil for a bare scalar entry.
func namedEntry(node *yaml.Node) (string, *yaml.Node, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return "", nil, err
		}
		return name, nil, nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return "", nil, fmt.Errorf("line %d: expected a single-key mapping", node.Line)
		}
		var name string
		if err := node.Content[0].Decode(&name); err != nil {
			return "", nil, err
		}
		return name, node.Content[1], nil
	default:
		return "", nil, fmt.Errorf("line %d: expected a name or a single-key mapping", node.Line)
	}
}

// decodeNamed splits a named entry and decodes its payload, if any, into
// out.
func decodeNamed(node *yaml.Node, out any) (string, error) {
	name, payload, err := namedEntry(node)
	if err != nil {
		return "", err
	}
	if payload != nil {
		if err := payload.Decode(out); err != nil {
			return "", err
		}
	}
	return name, nil
}
