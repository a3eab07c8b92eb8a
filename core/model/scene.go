package model

import "encoding/json"

// Scene is one script scene as produced by script ingestion. Scenes are
// immutable inputs to the scheduling pipeline.
type Scene struct {
	ID              string              `json:"id"`
	Location        SceneLocation       `json:"location"`
	TimeOfDay       string              `json:"time_of_day,omitempty"`
	TechnicalCues   []string            `json:"technical_cues,omitempty"`
	DurationMinutes int                 `json:"duration_minutes,omitempty"`
	MainCharacters  []string            `json:"main_characters,omitempty"`
	DepartmentNotes map[string][]string `json:"department_notes,omitempty"`
}

// UnmarshalJSON accepts either a full scene object or a bare string, which is
// treated as the scene identifier. Object form also accepts the legacy
// "scene_id" key.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = Scene{ID: id}
		return nil
	}
	type alias Scene
	aux := struct {
		*alias
		LegacyID   string `json:"scene_id"`
		LocationID string `json:"location_id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = aux.LegacyID
	}
	if s.Location.ID == "" {
		s.Location.ID = aux.LocationID
	}
	return nil
}

// SceneLocation describes where a scene shoots. Upstream collaborators emit
// it either as an object or as a plain place name.
type SceneLocation struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Address          string   `json:"address,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Requirements     []string `json:"requirements,omitempty"`
	SetupTimeMinutes int      `json:"setup_time,omitempty"`
	WrapTimeMinutes  int      `json:"wrap_time,omitempty"`
}

func (l *SceneLocation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*l = SceneLocation{Name: name}
		return nil
	}
	type alias SceneLocation
	return json.Unmarshal(data, (*alias)(l))
}

// Key returns the identifier used to group scenes by location: the explicit
// id when present, the display name otherwise.
func (l SceneLocation) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Name
}

// LocationConstraints restrict how the optimizer may sequence locations.
type LocationConstraints struct {
	PreferredLocations []string `json:"preferred_locations,omitempty"`
	AvoidConditions    []string `json:"avoid_conditions,omitempty"`
	Notes              []string `json:"notes,omitempty"`
}
