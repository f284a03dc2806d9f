package domain

import "time"

// Project is the central entity of the design pipeline. It is
// storage-agnostic and shared across repository, service and HTTP layers.
type Project struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Requirements  string     `json:"requirements"`
	Status        Status     `json:"status"`
	Artifacts     []Artifact `json:"artifacts"`
	Approval      *Approval  `json:"approval,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ArtifactKind tags an artifact with the agent stage that produced it.
type ArtifactKind string

const (
	ArtifactDesign ArtifactKind = "design"
	ArtifactReview ArtifactKind = "review"
)

// Artifact is one entry in a project's append-only output history.
// Exactly one of Design or Review is set, matching Kind.
type Artifact struct {
	Kind      ArtifactKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
	Design    *Design      `json:"design,omitempty"`
	Review    *Review      `json:"review,omitempty"`
}

// Design is the payload produced by the design-generation stage.
type Design struct {
	Components     []DesignComponent `json:"components"`
	TechnicalSpecs TechnicalSpecs    `json:"technical_specs"`
}

// DesignComponent describes one UI component of a generated design.
type DesignComponent struct {
	Component string `json:"component"`
	Structure string `json:"structure"`
	Styling   string `json:"styling"`
	Reasoning string `json:"reasoning"`
}

// TechnicalSpecs captures the implementation constraints of a design.
type TechnicalSpecs struct {
	Framework     string `json:"framework"`
	Styling       string `json:"styling"`
	Responsive    bool   `json:"responsive"`
	Accessibility string `json:"accessibility"`
}

// Review is the verdict produced by the review stage.
type Review struct {
	Score       int      `json:"score"`
	Passed      bool     `json:"passed"`
	Strengths   []string `json:"strengths"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Approval records the human decision that terminates the pipeline.
// It is written exactly once by the approval gate.
type Approval struct {
	Approved  bool      `json:"approved"`
	Feedback  string    `json:"feedback"`
	Approver  string    `json:"approver"`
	Timestamp time.Time `json:"timestamp"`
}

// LatestArtifact returns the most recent artifact of the given kind,
// or nil if none was recorded.
func (p *Project) LatestArtifact(kind ArtifactKind) *Artifact {
	for i := len(p.Artifacts) - 1; i >= 0; i-- {
		if p.Artifacts[i].Kind == kind {
			return &p.Artifacts[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the project so callers can hand out
// snapshots without sharing the artifacts slice.
func (p *Project) Clone() *Project {
	cp := *p
	if p.Artifacts != nil {
		cp.Artifacts = make([]Artifact, len(p.Artifacts))
		copy(cp.Artifacts, p.Artifacts)
	}
	if p.Approval != nil {
		a := *p.Approval
		cp.Approval = &a
	}
	return &cp
}
