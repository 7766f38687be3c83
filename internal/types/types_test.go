package types

import "testing"

func TestPhaseNext(t *testing.T) {
	tests := []struct {
		phase Phase
		next  Phase
		ok    bool
	}{
		{PhaseDiscovery, PhaseRequirements, true},
		{PhaseRequirements, PhaseDesign, true},
		{PhaseDesign, PhaseExecution, true},
		{PhaseExecution, PhaseDelivery, true},
		{PhaseDelivery, "", false},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		next, ok := tt.phase.Next()
		if next != tt.next || ok != tt.ok {
			t.Errorf("Phase(%s).Next() = (%s, %v), expected (%s, %v)", tt.phase, next, ok, tt.next, tt.ok)
		}
	}
}

func TestPhaseIsValid(t *testing.T) {
	for _, phase := range Phases {
		if !phase.IsValid() {
			t.Errorf("Expected %s to be valid", phase)
		}
	}
	if Phase("launch").IsValid() {
		t.Error("Expected unknown phase to be invalid")
	}
	if Phase("").IsValid() {
		t.Error("Expected empty phase to be invalid")
	}
}

func TestCategoryIsValid(t *testing.T) {
	for _, category := range Categories {
		if !category.IsValid() {
			t.Errorf("Expected %s to be valid", category)
		}
	}
	if Category("vibes").IsValid() {
		t.Error("Expected unknown category to be invalid")
	}
}

func TestProjectValidate(t *testing.T) {
	valid := &Project{Name: "api gateway", Owner: "alice", Phase: PhaseDiscovery}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid project, got %v", err)
	}

	tests := []struct {
		name    string
		project *Project
	}{
		{"empty name", &Project{Owner: "alice", Phase: PhaseDiscovery}},
		{"whitespace name", &Project{Name: "   ", Owner: "alice", Phase: PhaseDiscovery}},
		{"long name", &Project{Name: string(make([]byte, 201)), Owner: "alice", Phase: PhaseDiscovery}},
		{"empty owner", &Project{Name: "x", Phase: PhaseDiscovery}},
		{"bad phase", &Project{Name: "x", Owner: "alice", Phase: "launch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.project.Validate(); err == nil {
				t.Error("Expected validation error, got none")
			}
		})
	}
}

func TestSpecEntryValidate(t *testing.T) {
	valid := &SpecEntry{ProjectID: "p1", Phase: PhaseDiscovery, Category: CategoryGoals, Text: "ship it", Confidence: 0.5}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid entry, got %v", err)
	}

	bad := *valid
	bad.Confidence = 1.01
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for confidence above 1.0")
	}
	bad = *valid
	bad.Confidence = -0.01
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for negative confidence")
	}
	bad = *valid
	bad.Text = "  "
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for blank text")
	}
	bad = *valid
	bad.Category = "vibes"
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for invalid category")
	}
}

func TestNoteValidate(t *testing.T) {
	valid := &Note{ProjectID: "p1", Title: "kickoff"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid note, got %v", err)
	}
	if err := (&Note{Title: "kickoff"}).Validate(); err == nil {
		t.Error("Expected error for missing project id")
	}
	if err := (&Note{ProjectID: "p1"}).Validate(); err == nil {
		t.Error("Expected error for missing title")
	}
}
