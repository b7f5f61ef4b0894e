package domain

import (
	"strconv"
	"strings"
	"time"
)

type Skill string

const (
	SkillCarpenter   Skill = "carpenter"
	SkillPlumber     Skill = "plumber"
	SkillElectrician Skill = "electrician"
)

// Skills lists the recognized skills in display order.
var Skills = []Skill{SkillCarpenter, SkillPlumber, SkillElectrician}

func (s Skill) Valid() bool {
	switch s {
	case SkillCarpenter, SkillPlumber, SkillElectrician:
		return true
	}
	return false
}

// Label is the display name, e.g. "Plumber".
func (s Skill) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Cities is the fixed list of cities served.
var Cities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad",
	"Pune", "Ahmedabad", "Jaipur", "Surat", "Lucknow", "Kanpur",
	"Nagpur", "Indore", "Thane", "Bhopal", "Visakhapatnam", "Pimpri-Chinchwad",
}

func IsCity(city string) bool {
	for _, c := range Cities {
		if c == city {
			return true
		}
	}
	return false
}

// Problems maps every skill to the problem categories a customer can pick.
var Problems = map[Skill][]string{
	SkillCarpenter: {
		"Furniture Repair", "Door Installation", "Window Repair", "Cabinet Making",
		"Flooring", "Custom Woodwork", "Shelf Installation", "Wardrobe Repair",
	},
	SkillPlumber: {
		"Pipe Leakage", "Toilet Repair", "Tap Installation", "Drainage Issue",
		"Water Heater", "Basin Repair", "Bathroom Fitting", "Kitchen Plumbing",
	},
	SkillElectrician: {
		"Wiring Issue", "Fan Installation", "Light Fitting", "Switch Repair",
		"Power Outage", "Appliance Setup", "Circuit Breaker", "Socket Installation",
	},
}

func IsProblem(skill Skill, problem string) bool {
	for _, p := range Problems[skill] {
		if p == problem {
			return true
		}
	}
	return false
}

type Worker struct {
	ID        string
	Name      string
	Phone     string
	Photo     string
	Skill     Skill
	City      string
	Available bool

	// Rating statistics. RatingTenths is the mean of all ratings times ten,
	// rounded half up, and always equals MeanTenths(RatingSum, TotalRatings).
	RatingSum    int64
	TotalRatings int64
	RatingTenths int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rating returns the aggregate rating with one decimal place.
func (w *Worker) Rating() float64 {
	return float64(w.RatingTenths) / 10
}

// RatingString formats the rating as "4.5".
func (w *Worker) RatingString() string {
	return strconv.FormatFloat(w.Rating(), 'f', 1, 64)
}

// MeanTenths returns round_half_up(sum/count, 1) * 10 without floating point.
func MeanTenths(sum, count int64) int64 {
	if count <= 0 {
		return 0
	}
	return (20*sum + count) / (2 * count)
}
