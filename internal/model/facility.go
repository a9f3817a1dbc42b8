package model

// Facility is a nearby medical facility candidate; Distance is in metres.
type Facility struct {
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Distance float64  `json:"distance"`
}

type FacilitySelection struct {
	SelectedIndex int    `json:"selected_index" jsonschema:"description=Zero-based index of the chosen facility"`
	Reason        string `json:"reason" jsonschema:"description=Short explanation mentioning facility type"`
}
