package model

import (
	"encoding/json"
	"testing"
)

func TestSceneUnmarshalString(t *testing.T) {
	var s Scene
	if err := json.Unmarshal([]byte(`"42A"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.ID != "42A" {
		t.Fatalf("expected id 42A, got %q", s.ID)
	}
}

func TestSceneUnmarshalLegacyKeys(t *testing.T) {
	var s Scene
	data := `{"scene_id": "12", "location_id": "loft", "time_of_day": "DAY"}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.ID != "12" {
		t.Fatalf("expected id 12, got %q", s.ID)
	}
	if s.Location.ID != "loft" {
		t.Fatalf("expected location loft, got %q", s.Location.ID)
	}
	if s.TimeOfDay != "DAY" {
		t.Fatalf("expected DAY, got %q", s.TimeOfDay)
	}
}

func TestSceneUnmarshalObjectWins(t *testing.T) {
	var s Scene
	data := `{"id": "7", "scene_id": "legacy", "location": {"id": "bar", "name": "The Bar", "latitude": 48.85, "longitude": 2.35}}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.ID != "7" {
		t.Fatalf("canonical id should win over legacy: %q", s.ID)
	}
	if !(Location{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude}).HasCoordinates() {
		t.Fatalf("coordinates lost in decoding")
	}
}

func TestSceneLocationUnmarshalString(t *testing.T) {
	var l SceneLocation
	if err := json.Unmarshal([]byte(`"Warehouse"`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Name != "Warehouse" || l.ID != "" {
		t.Fatalf("unexpected location: %+v", l)
	}
	if l.Key() != "Warehouse" {
		t.Fatalf("key should fall back to name, got %q", l.Key())
	}
}

func TestCrewMemberUnmarshalString(t *testing.T) {
	var c CrewMember
	if err := json.Unmarshal([]byte(`"Sam"`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Name != "Sam" || c.Role != "Crew" {
		t.Fatalf("unexpected member: %+v", c)
	}
}

func TestDefaultCrewRoles(t *testing.T) {
	crew := DefaultCrew()
	if len(crew) != 5 {
		t.Fatalf("expected 5 members, got %d", len(crew))
	}
	for _, m := range crew {
		if m.Name == "" || m.Role == "" {
			t.Fatalf("incomplete template member: %+v", m)
		}
	}
}
