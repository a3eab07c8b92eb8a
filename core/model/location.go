package model

// Location is a shooting location derived from scenes during optimization.
// One location may serve several scenes.
type Location struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Address           string             `json:"address,omitempty"`
	Latitude          *float64           `json:"latitude"`
	Longitude         *float64           `json:"longitude"`
	Scenes            []string           `json:"scenes"`
	Requirements      []string           `json:"requirements,omitempty"`
	SetupTimeMinutes  int                `json:"setup_time_minutes"`
	WrapTimeMinutes   int                `json:"wrap_time_minutes"`
	WeatherDependency *WeatherDependency `json:"weather_dependency,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// WeatherDependency captures conditions a location depends on.
type WeatherDependency struct {
	PreferredConditions []string `json:"preferred_conditions,omitempty"`
	AvoidConditions     []string `json:"avoid_conditions,omitempty"`
	SeasonalNotes       []string `json:"seasonal_notes,omitempty"`
}

// DaylightRequirement records natural light needs for one scene.
type DaylightRequirement struct {
	SceneID       string `json:"scene_id"`
	NeedsDaylight bool   `json:"needs_daylight"`
	GoldenHour    bool   `json:"golden_hour,omitempty"`
	TimeWindow    string `json:"time_window,omitempty"`
}

// LocationGroup is a set of locations shot together, with the rationale.
type LocationGroup struct {
	GroupID   string   `json:"group_id"`
	Locations []string `json:"locations"`
	Reason    string   `json:"reason,omitempty"`
}

// LocationPlan is the output of the location optimization stage. Route, when
// present, is an approximate closed tour over the Locations slice expressed
// as position indices; it is advisory and never fabricated for locations
// without coordinates.
type LocationPlan struct {
	Locations            []Location            `json:"locations"`
	LocationGroups       []LocationGroup       `json:"location_groups,omitempty"`
	DaylightRequirements []DaylightRequirement `json:"daylight_requirements,omitempty"`
	ShootingSequence     []string              `json:"shooting_sequence"`
	Route                []int                 `json:"route,omitempty"`
	OptimizationNotes    []string              `json:"optimization_notes,omitempty"`
	IsFallback           bool                  `json:"is_fallback,omitempty"`
}
