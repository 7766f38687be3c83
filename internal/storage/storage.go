// Package storage defines the relational store contract for Socrates and
// constructs the SQLite backend that implements it.
package storage

import (
	"context"

	"github.com/socratesai/socrates/internal/storage/sqlite"
	"github.com/socratesai/socrates/internal/types"
)

// Storage defines the interface for the relational store backend
type Storage interface {
	// Projects
	CreateProject(ctx context.Context, project *types.Project) error
	GetProject(ctx context.Context, id string) (*types.Project, error)
	ListProjects(ctx context.Context, owner string, includeArchived bool) ([]*types.Project, error)
	UpdateProjectGoals(ctx context.Context, id, goals string) error
	UpdateProjectPhase(ctx context.Context, id string, phase types.Phase) error
	ArchiveProject(ctx context.Context, id string) error
	DeleteProject(ctx context.Context, id string) error

	// Array-valued project fields (normalized, one row per value)
	AddRequirement(ctx context.Context, projectID, requirement string) error
	AddTechStack(ctx context.Context, projectID, item string) error
	AddConstraint(ctx context.Context, projectID, constraint string) error
	AddTeamMember(ctx context.Context, projectID, member string) error

	// Spec entries (append-only)
	AddSpecEntry(ctx context.Context, entry *types.SpecEntry) error
	GetSpecEntries(ctx context.Context, projectID string, phase types.Phase) ([]*types.SpecEntry, error)
	GetSpecEntriesByCategory(ctx context.Context, projectID string, phase types.Phase, category types.Category) ([]*types.SpecEntry, error)

	// Maturity scores (derived cache of the scorer's output)
	SaveMaturityScore(ctx context.Context, score *types.MaturityScore) error
	GetMaturityScores(ctx context.Context, projectID string, phase types.Phase) ([]*types.MaturityScore, error)

	// Conversation history
	AddConversationTurn(ctx context.Context, turn *types.ConversationTurn) error
	GetConversation(ctx context.Context, projectID string, phase types.Phase, limit int) ([]*types.ConversationTurn, error)

	// Notes
	CreateNote(ctx context.Context, note *types.Note) error
	GetNote(ctx context.Context, id string) (*types.Note, error)
	ListNotes(ctx context.Context, projectID string) ([]*types.Note, error)
	UpdateNote(ctx context.Context, id, title, body string) error
	DeleteNote(ctx context.Context, id string) error

	// Knowledge documents
	CreateDocument(ctx context.Context, doc *types.KnowledgeDocument) error
	GetDocument(ctx context.Context, id string) (*types.KnowledgeDocument, error)
	ListDocuments(ctx context.Context, projectID string) ([]*types.KnowledgeDocument, error)
	DeleteDocument(ctx context.Context, id string) error

	// Users and tokens
	CreateUser(ctx context.Context, user *types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	CreateAuthToken(ctx context.Context, token *types.AuthToken) error
	DeleteExpiredTokens(ctx context.Context) (int, error)

	// LLM usage accounting
	RecordLLMUsage(ctx context.Context, usage *types.LLMUsage) error
	GetLLMUsage(ctx context.Context, projectID string) (*types.UsageSummary, error)

	// Statistics
	GetStatistics(ctx context.Context) (*types.Statistics, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory database (useful for tests).
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".socrates/socrates.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".socrates/socrates.db"
	}
	return sqlite.New(cfg.Path)
}
