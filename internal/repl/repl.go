// Package repl implements the interactive Socratic dialogue shell. It is
// the in-process operator surface that drives the agents through the
// orchestrator exactly the way an HTTP boundary would.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

// REPL represents the interactive dialogue shell
type REPL struct {
	orch      *orchestrator.Orchestrator
	rl        *readline.Instance
	ctx       context.Context
	actor     string
	projectID string
	category  types.Category
	commands  map[string]CommandHandler
}

// CommandHandler handles a specific slash command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Orchestrator *orchestrator.Orchestrator
	Actor        string
	ProjectID    string // Optional: preselect a project
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}

	actor := cfg.Actor
	if actor == "" {
		actor = "user"
	}

	r := &REPL{
		orch:      cfg.Orchestrator,
		actor:     actor,
		projectID: cfg.ProjectID,
		category:  types.CategoryRequirements,
		commands:  make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["use"] = r.cmdUse
	r.commands["category"] = r.cmdCategory
	r.commands["ask"] = r.cmdAsk
	r.commands["status"] = r.cmdStatus
	r.commands["advance"] = r.cmdAdvance
	r.commands["conflicts"] = r.cmdConflicts
	r.commands["exit"] = func([]string) error { return io.EOF }
	r.commands["quit"] = r.commands["exit"]
}

// Run starts the REPL loop. Plain input is recorded as an answer for the
// current category; slash commands control the session.
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("socrates> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	fmt.Println("Socratic dialogue shell. Type /help for commands; plain text records an answer.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline failed: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := r.dispatch(line); err != nil {
				if err == io.EOF {
					return nil
				}
				color.Red("error: %v", err)
			}
			continue
		}

		if err := r.recordAnswer(line); err != nil {
			color.Red("error: %v", err)
		}
	}
}

func (r *REPL) dispatch(line string) error {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return nil
	}
	handler, ok := r.commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command /%s (try /help)", fields[0])
	}
	return handler(fields[1:])
}

func (r *REPL) cmdHelp([]string) error {
	fmt.Println(`Commands:
  /use <project-id>      select the active project
  /category <name>       set answer category (goals, requirements, constraints, tech_stack)
  /ask                   generate the next Socratic question
  /status                show maturity scores for the current phase
  /advance               advance to the next phase (gated)
  /conflicts             scan entries for contradictions
  /exit                  leave the shell`)
	return nil
}

func (r *REPL) cmdUse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /use <project-id>")
	}
	result, err := r.orch.ProcessRequest(r.ctx, agents.NameProjectManager, orchestrator.Request{
		Action: "get_project",
		Params: map[string]interface{}{"project_id": args[0]},
	})
	if err != nil {
		return describeErr(err)
	}
	project := result.(*types.Project)
	r.projectID = project.ID
	color.Green("using project %s (%s, phase %s)", project.Name, project.ID, project.Phase)
	return nil
}

func (r *REPL) cmdCategory(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /category <name>")
	}
	category := types.Category(args[0])
	if !category.IsValid() {
		return fmt.Errorf("invalid category %q", args[0])
	}
	r.category = category
	color.Green("recording answers under %s", category)
	return nil
}

func (r *REPL) cmdAsk([]string) error {
	if err := r.requireProject(); err != nil {
		return err
	}
	result, err := r.orch.ProcessRequest(r.ctx, agents.NameSocraticCounselor, orchestrator.Request{
		Action: "generate_question",
		Params: map[string]interface{}{
			"project_id": r.projectID,
			"category":   string(r.category),
		},
	})
	if err != nil {
		return describeErr(err)
	}
	payload := result.(map[string]interface{})
	color.Yellow("\n%s\n", payload["question"])
	return nil
}

func (r *REPL) cmdStatus([]string) error {
	if err := r.requireProject(); err != nil {
		return err
	}
	result, err := r.orch.ProcessRequest(r.ctx, agents.NameQualityController, orchestrator.Request{
		Action: "compute_maturity",
		Params: map[string]interface{}{"project_id": r.projectID},
	})
	if err != nil {
		return describeErr(err)
	}
	report := result.(*agents.MaturityReport)
	fmt.Printf("phase %s: %.2f (gate %.2f)\n", report.Phase, report.PhaseScore, report.Threshold)
	for _, category := range types.Categories {
		if score, ok := report.CategoryScores[category]; ok {
			fmt.Printf("  %-14s %.2f\n", category, score)
		}
	}
	if report.Ready {
		color.Green("phase is ready to advance")
	}
	return nil
}

func (r *REPL) cmdAdvance([]string) error {
	if err := r.requireProject(); err != nil {
		return err
	}
	result, err := r.orch.ProcessRequest(r.ctx, agents.NameQualityController, orchestrator.Request{
		Action: "advance_phase",
		Params: map[string]interface{}{"project_id": r.projectID},
	})
	if err != nil {
		return describeErr(err)
	}
	payload := result.(map[string]interface{})
	color.Green("advanced %v -> %v", payload["from"], payload["to"])
	return nil
}

func (r *REPL) cmdConflicts([]string) error {
	if err := r.requireProject(); err != nil {
		return err
	}
	result, err := r.orch.ProcessRequest(r.ctx, agents.NameConflictDetector, orchestrator.Request{
		Action: "detect_conflicts",
		Params: map[string]interface{}{"project_id": r.projectID},
	})
	if err != nil {
		return describeErr(err)
	}
	conflicts := result.([]agents.Conflict)
	if len(conflicts) == 0 {
		color.Green("no conflicts detected")
		return nil
	}
	for _, c := range conflicts {
		color.Red("conflict: %s <-> %s: %s", c.EntryA, c.EntryB, c.Description)
	}
	return nil
}

func (r *REPL) recordAnswer(answer string) error {
	if err := r.requireProject(); err != nil {
		return err
	}
	_, err := r.orch.ProcessRequest(r.ctx, agents.NameSocraticCounselor, orchestrator.Request{
		Action: "record_answer",
		Params: map[string]interface{}{
			"project_id": r.projectID,
			"answer":     answer,
			"category":   string(r.category),
		},
	})
	if err != nil {
		return describeErr(err)
	}
	color.Green("recorded under %s", r.category)
	return nil
}

func (r *REPL) requireProject() error {
	if r.projectID == "" {
		return fmt.Errorf("no project selected (use /use <project-id>)")
	}
	return nil
}

// describeErr unwraps orchestrator wrapping for friendlier shell output
func describeErr(err error) error {
	var execErr *orchestrator.AgentExecutionError
	if errors.As(err, &execErr) {
		if errors.Is(err, types.ErrProjectNotFound) {
			return fmt.Errorf("project not found")
		}
		if errors.Is(err, types.ErrPhaseNotReady) {
			return fmt.Errorf("phase score is below the gate threshold (see /status)")
		}
		if errors.Is(err, types.ErrInvalidPhaseTransition) {
			return fmt.Errorf("project is already in the final phase")
		}
	}
	return err
}
