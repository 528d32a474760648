// Package icon implements the "icon" task plugin: an ICON model run driven
// by a set of namelists. The plugin locates the master namelist, follows it
// to the model namelist, detects restart runs from the restart input port
// and folds the owning cycle point into the master namelist specs.
// Rendering namelists to disk is the execution backend's concern.
package icon

import (
	"fmt"
	"path"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
	"github.com/vk/cyclegraph/internal/graph"
	"github.com/vk/cyclegraph/internal/registry"
)

// Tag is the plugin tag this package registers under.
const Tag = "icon"

const (
	masterNamelistName     = "icon_master.namelist"
	masterModelNmlSection  = "master_model_nml"
	modelNamelistFileField = "model_namelist_filename"
	restartFilePort        = "restart_file"
)

// Namelist is one named namelist with its section/key specs.
type Namelist struct {
	Name     string
	Sections map[string]map[string]any
}

// Set writes one key into a section, creating the section if needed.
func (n *Namelist) Set(section, key string, value any) {
	if n.Sections == nil {
		n.Sections = make(map[string]map[string]any)
	}
	if n.Sections[section] == nil {
		n.Sections[section] = make(map[string]any)
	}
	n.Sections[section][key] = value
}

// Lookup reads one key from a section.
func (n *Namelist) Lookup(section, key string) (any, bool) {
	s, ok := n.Sections[section]
	if !ok {
		return nil, false
	}
	v, ok := s[key]
	return v, ok
}

// Task is an icon task instance.
type Task struct {
	*graph.Task

	Bin       string
	Namelists []*Namelist

	master *Namelist
	model  *Namelist
}

// Register hooks the icon plugin into a registry.
func Register(r *registry.Registry) error {
	return r.RegisterTask(Tag, newTask)
}

func newTask(base *graph.Task, cfg *config.Task) (graph.TaskNode, error) {
	if cfg.Icon == nil {
		return nil, fmt.Errorf("task %q: plugin %q requires an icon spec", cfg.Name, Tag)
	}
	t := &Task{
		Task: base,
		Bin:  cfg.Icon.Bin,
	}
	for _, nl := range cfg.Icon.Namelists {
		t.Namelists = append(t.Namelists, namelistFromConfig(nl))
	}
	if err := t.detectNamelists(); err != nil {
		return nil, fmt.Errorf("task %q: %w", cfg.Name, err)
	}
	if err := t.updateFromCyclePoint(); err != nil {
		return nil, fmt.Errorf("task %q: %w", cfg.Name, err)
	}
	return t, nil
}

// namelistFromConfig copies the declared specs so per-instance updates
// never leak back into the shared configuration tree.
func namelistFromConfig(cfg *config.Namelist) *Namelist {
	nl := &Namelist{Name: path.Base(cfg.Path)}
	for section, entries := range cfg.Specs {
		for key, value := range entries {
			nl.Set(section, key, value)
		}
	}
	return nl
}

// detectNamelists finds the master namelist and follows its
// model_namelist_filename entry to the model namelist.
func (t *Task) detectNamelists() error {
	for _, nl := range t.Namelists {
		if nl.Name == masterNamelistName {
			t.master = nl
			break
		}
	}
	if t.master == nil {
		return fmt.Errorf("could not find master namelist %q", masterNamelistName)
	}
	modelName, ok := t.master.Lookup(masterModelNmlSection, modelNamelistFileField)
	if !ok {
		return fmt.Errorf("no model namelist filename in master namelist: missing %q in section %q",
			modelNamelistFileField, masterModelNmlSection)
	}
	wanted, ok := modelName.(string)
	if !ok {
		return fmt.Errorf("model namelist filename must be a string, got %T", modelName)
	}
	for _, nl := range t.Namelists {
		if nl.Name == wanted {
			t.model = nl
			return nil
		}
	}
	return fmt.Errorf("could not find model namelist %q", wanted)
}

// updateFromCyclePoint folds the owning cycle point into the master
// namelist: experiment bounds, restart interval and the restart flags.
func (t *Task) updateFromCyclePoint() error {
	point, ok := t.CyclePoint().(cycling.DateCyclePoint)
	if !ok {
		return fmt.Errorf("an icon task must belong to a date-cycled cycle")
	}
	t.master.Set("master_time_control_nml", "experimentStartDate", cycling.FormatDate(point.StartDate)+"Z")
	t.master.Set("master_time_control_nml", "experimentStopDate", cycling.FormatDate(point.StopDate)+"Z")
	t.master.Set("master_time_control_nml", "restarttimeintval", point.Period.String())
	restart := t.IsRestart()
	t.master.Set("master_nml", "lrestart", restart)
	t.master.Set("master_nml", "read_restart_namelists", restart)
	return nil
}

// MasterNamelist returns the detected master namelist.
func (t *Task) MasterNamelist() *Namelist { return t.master }

// ModelNamelist returns the namelist the master one points at.
func (t *Task) ModelNamelist() *Namelist { return t.model }

// IsRestart reports whether the instance starts from a restart file: the
// restart port must be present and non-empty.
func (t *Task) IsRestart() bool {
	return len(t.Input(restartFilePort)) > 0
}
