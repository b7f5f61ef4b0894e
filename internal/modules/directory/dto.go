package directory

// AddWorkerRequest is the profile of a new worker.
type AddWorkerRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Photo     string `json:"photo" validate:"omitempty,url"`
	Skill     string `json:"skill" validate:"required,skill"`
	City      string `json:"city" validate:"required,city"`
	Available *bool  `json:"available"`
}
