// Package content holds the game reference data: each game's ordered task
// list, the instruction template per task, and the phase progression. The
// data is loaded once at startup and treated as read-only afterwards.
package content

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"k8sgrader/internal/model"
)

// TaskDef is one gradable step within a game.
type TaskDef struct {
	Name        string   `yaml:"name"`
	Instruction string   `yaml:"instruction"`
	Phases      []string `yaml:"phases"`
}

// GameDef is a named ordered sequence of tasks.
type GameDef struct {
	Tasks []TaskDef `yaml:"tasks"`
}

type gamesFile struct {
	Games map[string]GameDef `yaml:"games"`
}

// Library provides lookups over the loaded game definitions.
type Library struct {
	games map[string]GameDef
}

// Load reads game definitions from a YAML file.
func Load(filepath string) (*Library, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading games file: %w", err)
	}

	var file gamesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing games YAML: %w", err)
	}
	if len(file.Games) == 0 {
		return nil, fmt.Errorf("games file %s defines no games", filepath)
	}

	return &Library{games: file.Games}, nil
}

// NewLibrary builds a Library directly from definitions. Used by tests and
// embedded setups.
func NewLibrary(games map[string]GameDef) *Library {
	return &Library{games: games}
}

// CurrentTask returns the first task of the game's fixed ordering that does
// not appear in finished, or false when every task is done (or the game is
// unknown). Pure lookup, no side effects.
func (l *Library) CurrentTask(game string, finished []string) (string, bool) {
	def, ok := l.games[game]
	if !ok {
		return "", false
	}

	done := make(map[string]struct{}, len(finished))
	for _, t := range finished {
		done[t] = struct{}{}
	}

	for _, task := range def.Tasks {
		if _, ok := done[task.Name]; !ok {
			return task.Name, true
		}
	}
	return "", false
}

// instructionData is what instruction templates may reference.
type instructionData struct {
	SessionID string
	Email     string
	Game      string
	Task      string
}

// Instruction renders the task's instruction template against the session.
// Templates may reference {{.SessionID}}, {{.Email}}, {{.Game}} and
// {{.Task}} so that per-session resource names stay stable across retries.
func (l *Library) Instruction(game, task string, session *model.SessionRecord) (string, error) {
	def, ok := l.taskDef(game, task)
	if !ok {
		return "", fmt.Errorf("no task %s in game %s", task, game)
	}
	if strings.TrimSpace(def.Instruction) == "" {
		return "", fmt.Errorf("task %s in game %s has no instruction", task, game)
	}

	tmpl, err := template.New("instruction").Parse(def.Instruction)
	if err != nil {
		return "", fmt.Errorf("failed to parse instruction template: %w", err)
	}

	var sb strings.Builder
	data := instructionData{
		SessionID: session.ID,
		Email:     session.Email,
		Game:      session.Game,
		Task:      session.Task,
	}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render instruction template: %w", err)
	}
	return sb.String(), nil
}

// NextPhase computes the phase following current in the task's declared phase
// list. The last phase is terminal and maps to itself; tasks without an
// explicit list use the setup -> check default.
func (l *Library) NextPhase(game, task string, current model.GamePhase) model.GamePhase {
	phases := []string{string(model.PhaseSetup), string(model.PhaseCheck)}
	if def, ok := l.taskDef(game, task); ok && len(def.Phases) > 0 {
		phases = def.Phases
	}

	for i, p := range phases {
		if p == string(current) && i+1 < len(phases) {
			return model.GamePhase(phases[i+1])
		}
	}
	return current
}

func (l *Library) taskDef(game, task string) (TaskDef, bool) {
	def, ok := l.games[game]
	if !ok {
		return TaskDef{}, false
	}
	for _, t := range def.Tasks {
		if t.Name == task {
			return t, true
		}
	}
	return TaskDef{}, false
}
