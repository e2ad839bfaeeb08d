package region

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 4 {
		t.Fatalf("Default().Len() = %d, want 4", c.Len())
	}

	forest, ok := c.FindRegion("forest_1")
	if !ok {
		t.Fatal("FindRegion(forest_1) not found")
	}
	if !forest.HasDuration(300) {
		t.Error("forest_1 should offer a 300s duration")
	}
	if forest.Rewards[0].MaterialID != "herb_common" || forest.Rewards[0].Min != 2 || forest.Rewards[0].Max != 5 || forest.Rewards[0].Chance != 1 {
		t.Errorf("forest_1 first reward = %+v, want herb_common 2-5 @1", forest.Rewards[0])
	}

	ruins, _ := c.FindRegion("ancient_ruins")
	if ruins.UnlockCondition == nil || ruins.UnlockCondition.FacilityLevel != 3 {
		t.Errorf("ancient_ruins unlock condition = %+v, want facility level 3", ruins.UnlockCondition)
	}

	if _, ok := c.FindRegion("bad_region"); ok {
		t.Error("FindRegion(bad_region) should not be found")
	}
}

func TestCatalog_RegionsPreservesOrder(t *testing.T) {
	regions := Default().Regions()
	want := []string{"forest_1", "cave_entrance", "ancient_ruins", "deep_sea"}
	for i, id := range want {
		if regions[i].ID != id {
			t.Errorf("Regions()[%d].ID = %q, want %q", i, regions[i].ID, id)
		}
	}
}

func TestCatalog_LookupReturnsCopy(t *testing.T) {
	c := Default()

	r, _ := c.FindRegion("forest_1")
	r.Rewards[0].Max = 999
	r.DurationOptions[0] = 1

	again, _ := c.FindRegion("forest_1")
	if again.Rewards[0].Max != 5 {
		t.Errorf("catalog reward mutated through lookup: max = %d", again.Rewards[0].Max)
	}
	if again.DurationOptions[0] != 300 {
		t.Errorf("catalog durations mutated through lookup: %v", again.DurationOptions)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid single region",
			yaml: `
regions:
  - id: marsh
    name: Marsh
    recommended_level: 2
    duration_options: [60]
    rewards:
      - {material_id: reed, min: 0, max: 2, chance: 0.5}
`,
		},
		{
			name:    "malformed yaml",
			yaml:    "regions: [",
			wantErr: "failed to parse region catalog",
		},
		{
			name: "duplicate id",
			yaml: `
regions:
  - {id: a, duration_options: [1]}
  - {id: a, duration_options: [1]}
`,
			wantErr: `duplicate region id "a"`,
		},
		{
			name:    "empty id",
			yaml:    "regions:\n  - {name: x, duration_options: [1]}\n",
			wantErr: "region id must not be empty",
		},
		{
			name:    "negative recommended level",
			yaml:    "regions:\n  - {id: a, recommended_level: -1, duration_options: [1]}\n",
			wantErr: "recommended level must be >= 0",
		},
		{
			name:    "no durations",
			yaml:    "regions:\n  - {id: a}\n",
			wantErr: "at least one duration option",
		},
		{
			name:    "zero duration",
			yaml:    "regions:\n  - {id: a, duration_options: [0]}\n",
			wantErr: "duration options must be positive",
		},
		{
			name:    "min greater than max",
			yaml:    "regions:\n  - {id: a, duration_options: [1], rewards: [{material_id: m, min: 3, max: 1, chance: 1}]}\n",
			wantErr: "0 <= min <= max",
		},
		{
			name:    "zero chance",
			yaml:    "regions:\n  - {id: a, duration_options: [1], rewards: [{material_id: m, min: 1, max: 1, chance: 0}]}\n",
			wantErr: "chance must be in (0, 1]",
		},
		{
			name:    "chance above one",
			yaml:    "regions:\n  - {id: a, duration_options: [1], rewards: [{material_id: m, min: 1, max: 1, chance: 1.5}]}\n",
			wantErr: "chance must be in (0, 1]",
		},
		{
			name:    "missing material",
			yaml:    "regions:\n  - {id: a, duration_options: [1], rewards: [{min: 1, max: 1, chance: 1}]}\n",
			wantErr: "has no material id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse() error = %v, want nil", err)
				}
				if c.Len() != 1 {
					t.Errorf("Parse().Len() = %d, want 1", c.Len())
				}
				return
			}
			if err == nil {
				t.Fatalf("Parse() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRegion_MatchesElement(t *testing.T) {
	sea := Region{ID: "deep_sea", Element: "water"}
	if !sea.MatchesElement("WATER") {
		t.Error("MatchesElement should ignore case")
	}
	if sea.MatchesElement("fire") {
		t.Error("MatchesElement(fire) = true, want false")
	}
	if (Region{ID: "plain"}).MatchesElement("water") {
		t.Error("region without element should never match")
	}
}
