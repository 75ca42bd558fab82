package handler

// Request payloads for the curation endpoints. Validation beyond shape lives
// in the domain layer; handlers only decode and translate.

type submitCurationRequest struct {
	SubjectID            string           `json:"subject_id"`
	Sensitivity          string           `json:"sensitivity"`
	Culture              string           `json:"culture"`
	TraditionalElements  []elementPayload `json:"traditional_elements,omitempty"`
	RequiresConsultation bool             `json:"requires_consultation"`
}

type elementPayload struct {
	Element         string `json:"element"`
	AuthenticityTag string `json:"authenticity_tag"`
}

type addSourceRequest struct {
	SourceID    string `json:"source_id"`
	Reliability int    `json:"reliability"`
}

type keeperConsultRequest struct {
	Community string `json:"community"`
	Notes     string `json:"notes"`
}

type expertValidationRequest struct {
	ExpertType string  `json:"expert_type"`
	Confidence float64 `json:"confidence"`
	Findings   string  `json:"findings"`
}

type communityReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewType string `json:"review_type"`
}

type decisionRequest struct {
	Decision   string `json:"decision"`
	Visibility string `json:"visibility,omitempty"`
	Notes      string `json:"notes,omitempty"`
}
