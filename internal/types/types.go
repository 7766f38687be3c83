package types

import (
	"fmt"
	"strings"
	"time"
)

// Phase represents a stage in the fixed project lifecycle.
// Phases are ordered; transitions only move forward one step at a time.
type Phase string

const (
	PhaseDiscovery    Phase = "discovery"
	PhaseRequirements Phase = "requirements"
	PhaseDesign       Phase = "design"
	PhaseExecution    Phase = "execution"
	PhaseDelivery     Phase = "delivery"
)

// Phases lists all lifecycle phases in order.
var Phases = []Phase{
	PhaseDiscovery,
	PhaseRequirements,
	PhaseDesign,
	PhaseExecution,
	PhaseDelivery,
}

// IsValid checks if the phase value is valid
func (p Phase) IsValid() bool {
	switch p {
	case PhaseDiscovery, PhaseRequirements, PhaseDesign, PhaseExecution, PhaseDelivery:
		return true
	}
	return false
}

// Next returns the phase that follows p, or false if p is the last phase.
func (p Phase) Next() (Phase, bool) {
	for i, candidate := range Phases {
		if candidate == p && i+1 < len(Phases) {
			return Phases[i+1], true
		}
	}
	return "", false
}

// Category tags a spec entry with the kind of project knowledge it captures.
type Category string

const (
	CategoryGoals        Category = "goals"
	CategoryRequirements Category = "requirements"
	CategoryConstraints  Category = "constraints"
	CategoryTechStack    Category = "tech_stack"
)

// Categories lists all spec entry categories.
var Categories = []Category{
	CategoryGoals,
	CategoryRequirements,
	CategoryConstraints,
	CategoryTechStack,
}

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryGoals, CategoryRequirements, CategoryConstraints, CategoryTechStack:
		return true
	}
	return false
}

// Project represents one elicitation project and its accumulated state
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Owner     string     `json:"owner"`
	Phase     Phase      `json:"phase"`
	Goals     string     `json:"goals,omitempty"`
	Archived  bool       `json:"archived"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Populated by GetProject, not stored on the project row itself
	Requirements []string `json:"requirements,omitempty"`
	TechStack    []string `json:"tech_stack,omitempty"`
	Constraints  []string `json:"constraints,omitempty"`
	TeamMembers  []string `json:"team_members,omitempty"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > 200 {
		return fmt.Errorf("name must be 200 characters or less (got %d)", len(p.Name))
	}
	if strings.TrimSpace(p.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if !p.Phase.IsValid() {
		return fmt.Errorf("invalid phase: %s", p.Phase)
	}
	return nil
}

// SpecEntry is one piece of elicited project knowledge. Entries are
// append-only: corrections add new entries rather than mutating old ones.
type SpecEntry struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Phase      Phase     `json:"phase"`
	Category   Category  `json:"category"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source,omitempty"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks if the spec entry has valid field values
func (e *SpecEntry) Validate() error {
	if e.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if !e.Phase.IsValid() {
		return fmt.Errorf("invalid phase: %s", e.Phase)
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", e.Category)
	}
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", e.Confidence)
	}
	return nil
}

// MaturityScore is a derived completeness measure for a (project, phase)
// or (project, phase, category) key. Scores are recomputed from spec
// entries, never authoritative on their own.
type MaturityScore struct {
	ProjectID string    `json:"project_id"`
	Phase     Phase     `json:"phase"`
	Category  Category  `json:"category,omitempty"` // empty for the phase-level score
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationTurn is one question/answer exchange in the Socratic dialogue
type ConversationTurn struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Phase     Phase     `json:"phase"`
	Role      string    `json:"role"` // "counselor" or "user"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-form note attached to a project
type Note struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the note has valid field values
func (n *Note) Validate() error {
	if n.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// KnowledgeDocument is a document in the shared knowledge base, mirrored
// into the vector index for semantic search
type KnowledgeDocument struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"project_id,omitempty"` // empty for global documents
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// User represents an account that owns or collaborates on projects
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthToken is an opaque credential issued to a user. Token validation
// itself belongs to the HTTP boundary; only storage lives here.
type AuthToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// LLMUsage records one completed LLM call for cost accounting
type LLMUsage struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id,omitempty"`
	Agent        string    `json:"agent"`
	Operation    string    `json:"operation"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// UsageSummary aggregates llm_usage rows for reporting
type UsageSummary struct {
	Calls        int64   `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Statistics summarizes store contents for the system monitor
type Statistics struct {
	TotalProjects    int `json:"total_projects"`
	ActiveProjects   int `json:"active_projects"`
	ArchivedProjects int `json:"archived_projects"`
	TotalEntries     int `json:"total_entries"`
	TotalNotes       int `json:"total_notes"`
	TotalDocuments   int `json:"total_documents"`
	TotalTurns       int `json:"total_turns"`
}
