package sched

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
)

// SceneInput is the scene payload accepted at the coordinator boundary.
// Upstream collaborators emit scenes either at the top level or nested under
// parsed_data; both shapes map onto the same canonical scene list here so the
// rest of the pipeline never sees the variance.
type SceneInput struct {
	Scenes     []model.Scene  `json:"scenes"`
	ParsedData *nestedScenes  `json:"parsed_data,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type nestedScenes struct {
	Scenes []model.Scene `json:"scenes"`
}

// SceneInputFromJSON decodes a raw script-ingestion document.
func SceneInputFromJSON(data []byte) (SceneInput, error) {
	var in SceneInput
	if err := json.Unmarshal(data, &in); err != nil {
		return SceneInput{}, fmt.Errorf("decode scene data: %w", err)
	}
	return in, nil
}

// resolveScenes returns the canonical scene list or ErrNoScenes.
func (in SceneInput) resolveScenes() ([]model.Scene, error) {
	scenes := in.Scenes
	if len(scenes) == 0 && in.ParsedData != nil {
		scenes = in.ParsedData.Scenes
	}
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	return scenes, nil
}

// CrewInput is the crew payload accepted at the coordinator boundary. The
// crew list arrives either top-level or under character_breakdown.
type CrewInput struct {
	Crew               []model.CrewMember `json:"crew"`
	CharacterBreakdown *nestedCrew        `json:"character_breakdown,omitempty"`
	Metadata           map[string]any     `json:"metadata,omitempty"`
}

type nestedCrew struct {
	Crew []model.CrewMember `json:"crew"`
}

// CrewInputFromJSON decodes a raw character-breakdown document.
func CrewInputFromJSON(data []byte) (CrewInput, error) {
	var in CrewInput
	if err := json.Unmarshal(data, &in); err != nil {
		return CrewInput{}, fmt.Errorf("decode crew data: %w", err)
	}
	return in, nil
}

// resolveCrew returns the crew list, defaulting to the standard template when
// nothing usable is present.
func (in CrewInput) resolveCrew(log logger.Logger) []model.CrewMember {
	crew := in.Crew
	if len(crew) == 0 && in.CharacterBreakdown != nil {
		crew = in.CharacterBreakdown.Crew
	}
	if len(crew) == 0 {
		log.Warnf("no crew data found, using standard crew template")
		crew = model.DefaultCrew()
	}
	return crew
}

// validateStartDate checks the YYYY-MM-DD format. An empty date defaults to
// today with a warning; a malformed one is a caller error.
func validateStartDate(startDate string, now func() time.Time, log logger.Logger) (string, error) {
	if startDate == "" {
		d := now().Format("2006-01-02")
		log.Warnf("no start date provided, using today: %s", d)
		return d, nil
	}
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return "", fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
	}
	return startDate, nil
}
