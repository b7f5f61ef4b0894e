package catalog

type SkillEntry struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Problems []string `json:"problems"`
}

type Response struct {
	Skills    []SkillEntry `json:"skills"`
	Cities    []string     `json:"cities"`
	TimeSlots []string     `json:"time_slots"`
}
