package task

type CheckKind string

const (
	CheckAttributeEquals CheckKind = "attribute_equals"
	CheckLocatedIn       CheckKind = "located_in"
	CheckHeldBy          CheckKind = "held_by"
)

type GoalCheck struct {
	Kind      CheckKind `json:"kind" yaml:"kind"`
	Target    string    `json:"target" yaml:"target"`
	Attribute string    `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
	Where     string    `json:"where,omitempty" yaml:"where,omitempty"`
	Holder    string    `json:"holder,omitempty" yaml:"holder,omitempty"`
}

type CompletionMode string

const (
	ModeAllChecks CompletionMode = "all"
	ModeAnyCheck  CompletionMode = "any"
)

type Subtask struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Mode   CompletionMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Checks []GoalCheck    `json:"checks" yaml:"checks"`
}

// Task is loaded once at scenario start. SceneAbilities lists the
// scene-global ability grants available to every agent for the whole
// episode.
type Task struct {
	SceneAbilities []string  `json:"scene_abilities,omitempty" yaml:"scene_abilities,omitempty"`
	Subtasks       []Subtask `json:"subtasks" yaml:"subtasks"`
}
