package topics

import "testing"

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 5 {
		t.Fatalf("got %d topics, want 5", len(all))
	}
	wantIDs := []string{"html", "css", "javascript", "react", "nodejs"}
	for i, id := range wantIDs {
		if all[i].ID != id {
			t.Errorf("topic %d = %q, want %q", i, all[i].ID, id)
		}
	}

	all[0].Name = "mutated"
	if All()[0].Name != "HTML" {
		t.Error("All must return a copy")
	}
}

func TestByID(t *testing.T) {
	tests := []struct {
		id       string
		wantName string
		wantTier Level
	}{
		{"html", "HTML", LevelBeginner},
		{"nodejs", "Node.js", LevelIntermediate},
		{"javascript", "JavaScript", LevelIntermediate},
		{"unknown", "HTML", LevelBeginner},
		{"", "HTML", LevelBeginner},
	}
	for _, tt := range tests {
		got := ByID(tt.id)
		if got.Name != tt.wantName || got.Difficulty != tt.wantTier {
			t.Errorf("ByID(%q) = %+v", tt.id, got)
		}
	}

	if _, ok := Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should report absent")
	}
}

func TestDifficultyLabel(t *testing.T) {
	tests := map[Level]string{
		LevelBeginner:     "Iniciante",
		LevelIntermediate: "Intermediário",
		LevelAdvanced:     "Avançado",
		"":                "Todos os níveis",
		"expert":          "Todos os níveis",
	}
	for level, want := range tests {
		if got := DifficultyLabel(level); got != want {
			t.Errorf("DifficultyLabel(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestPathPrerequisites(t *testing.T) {
	chain := Prerequisites("responsive")
	want := []string{"css_layout", "css_basics", "html_intro"}
	if len(chain) != len(want) {
		t.Fatalf("got chain of %d, want %d", len(chain), len(want))
	}
	for i, id := range want {
		if chain[i].ID != id {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i].ID, id)
		}
	}

	if got := Prerequisites(DefaultPathTopic); len(got) != 0 {
		t.Errorf("entry point has prerequisites: %v", got)
	}
	if got := Prerequisites("nope"); got != nil {
		t.Errorf("unknown topic chain = %v", got)
	}
}

func TestPathDependents(t *testing.T) {
	deps := Dependents("html_intro")
	if len(deps) != 3 {
		t.Fatalf("got %d dependents, want 3", len(deps))
	}
	if deps[0].ID != "html_semantic" || deps[2].ID != "js_intro" {
		t.Errorf("dependents = %v", deps)
	}
}

func TestPathTopicName(t *testing.T) {
	if got := PathTopicName("js_dom"); got != "JavaScript e DOM" {
		t.Errorf("PathTopicName(js_dom) = %q", got)
	}
	if got := PathTopicName("custom"); got != "custom" {
		t.Errorf("PathTopicName(custom) = %q", got)
	}
}

func TestTrackLabel(t *testing.T) {
	if TrackFrontend.Label() != "Frontend" || TrackProgramming.Label() != "Programação" || Track("x").Label() != "Outro" {
		t.Error("unexpected track labels")
	}
}

func TestValidatePath(t *testing.T) {
	if err := validatePath(path); err != nil {
		t.Fatalf("built-in path invalid: %v", err)
	}

	tests := []struct {
		name   string
		topics []PathTopic
	}{
		{"duplicate", []PathTopic{{ID: "a"}, {ID: "a"}}},
		{"missing prerequisite", []PathTopic{{ID: "a", Prerequisite: "b"}}},
		{"cycle", []PathTopic{{ID: "a", Prerequisite: "b"}, {ID: "b", Prerequisite: "a"}}},
	}
	for _, tt := range tests {
		if err := validatePath(tt.topics); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
