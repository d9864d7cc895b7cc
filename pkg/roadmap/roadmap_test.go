package roadmap

import (
	"testing"
	"time"

	errs "github.com/matzehuels/waymark/pkg/errors"
)

func TestSeedRoadmapsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range SeedRoadmaps() {
		if err := r.Validate(); err != nil {
			t.Errorf("seed roadmap %s invalid: %v", r.ID, err)
		}
		if seen[r.ID] {
			t.Errorf("duplicate roadmap id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestSeedRoadmapsFresh(t *testing.T) {
	a := SeedRoadmaps()
	a[0].Nodes[0].Title = "mutated"
	a[0].Tags[0] = "mutated"

	b := SeedRoadmaps()
	if b[0].Nodes[0].Title == "mutated" || b[0].Tags[0] == "mutated" {
		t.Error("SeedRoadmaps should return independent copies")
	}
}

func TestFind(t *testing.T) {
	r := SeedRoadmaps()[0]

	n, ok := r.Find("j1.1.1.2")
	if !ok {
		t.Fatal("Find(j1.1.1.2) not found")
	}
	if n.Title != "Empathy" {
		t.Errorf("Title = %q, want Empathy", n.Title)
	}

	if _, ok := r.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}

func TestCountNodes(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"4", 25},
		{"1", 10},
	}
	byID := make(map[string]Roadmap)
	for _, r := range SeedRoadmaps() {
		byID[r.ID] = r
	}
	for _, tt := range tests {
		r := byID[tt.id]
		if got := r.CountNodes(); got != tt.want {
			t.Errorf("roadmap %s CountNodes() = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestRoot(t *testing.T) {
	var empty Roadmap
	if empty.Root() != nil {
		t.Error("Root() of empty roadmap should be nil")
	}
	r := SeedRoadmaps()[0]
	if r.Root().ID != "j1" {
		t.Errorf("Root().ID = %q, want j1", r.Root().ID)
	}
}

func TestExpandableIDs(t *testing.T) {
	r := SeedRoadmaps()[0]
	ids := r.ExpandableIDs()
	want := []string{"j1", "j1.1", "j1.1.1", "j1.2", "j2", "j2.1", "j3", "j4", "j5"}
	if len(ids) != len(want) {
		t.Fatalf("ExpandableIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestClone(t *testing.T) {
	r := SeedRoadmaps()[0]
	c := r.Clone()
	c.Nodes[0].Children[0].Title = "changed"
	c.Comments[0].Text = "changed"
	c.Tags = append(c.Tags, "extra")

	if r.Nodes[0].Children[0].Title == "changed" {
		t.Error("Clone should deep copy nodes")
	}
	if r.Comments[0].Text == "changed" {
		t.Error("Clone should copy comments")
	}
	if len(r.Tags) != 4 {
		t.Errorf("original tags changed: %v", r.Tags)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	r := SeedRoadmaps()[0]
	var visited []string
	Walk(r.Nodes, func(n Node, depth int) bool {
		visited = append(visited, n.ID)
		return n.ID != "j1"
	})
	for _, id := range visited {
		if id == "j1.1" {
			t.Error("children of j1 should be skipped")
		}
	}
	if len(visited) != 1+5+3+4+3 {
		t.Errorf("visited %d nodes: %v", len(visited), visited)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Roadmap
		code errs.Code
	}{
		{
			name: "valid",
			r:    Roadmap{Title: "T", Nodes: []Node{{ID: "a", Title: "A"}}},
		},
		{
			name: "blank title",
			r:    Roadmap{Title: " "},
			code: errs.ErrCodeInvalidTitle,
		},
		{
			name: "blank step",
			r:    Roadmap{Title: "T", Nodes: []Node{{ID: "a", Title: ""}}},
			code: errs.ErrCodeInvalidStep,
		},
		{
			name: "duplicate id",
			r: Roadmap{Title: "T", Nodes: []Node{
				{ID: "a", Title: "A", Children: []Node{{ID: "a", Title: "B"}}},
			}},
			code: errs.ErrCodeInvalidStep,
		},
		{
			name: "bad tag",
			r:    Roadmap{Title: "T", Tags: []string{""}},
			code: errs.ErrCodeInvalidTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err=%v)", got, tt.code, err)
			}
		})
	}
}

func TestNewComment(t *testing.T) {
	u := SeedUsers()[2]
	now := time.Date(2025, 7, 30, 10, 0, 0, 0, time.FixedZone("TR", 3*3600))
	c := NewComment(u, "hello", now)

	if c.ID == "" {
		t.Error("comment id should be set")
	}
	if c.UserID != "u3" || c.Username != "okanacer" {
		t.Errorf("author snapshot = %s/%s", c.UserID, c.Username)
	}
	if c.Timestamp.Location() != time.UTC {
		t.Error("timestamp should be normalized to UTC")
	}
}
