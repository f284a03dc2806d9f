package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// passingScore is the minimum review score for a passing verdict.
const passingScore = 80

// Reviewer is the design-review stage. It scores the latest design artifact
// and returns a pass/fail verdict with notes.
type Reviewer struct {
	// Delay models agent processing latency. Tests set it to zero.
	Delay time.Duration
}

// NewReviewer creates a review stage with the given synthetic latency.
func NewReviewer(delay time.Duration) *Reviewer {
	return &Reviewer{Delay: delay}
}

func (r *Reviewer) Kind() domain.ArtifactKind {
	return domain.ArtifactReview
}

// Execute reviews the most recent design artifact. It fails if no design
// artifact is present in the input, which indicates a mis-ordered pipeline.
func (r *Reviewer) Execute(ctx context.Context, in Input) (domain.Artifact, error) {
	latest := latestDesign(in.Artifacts)
	if latest == nil {
		return domain.Artifact{}, fmt.Errorf("review stage: no design artifact to review")
	}

	if err := simulate(ctx, r.Delay); err != nil {
		return domain.Artifact{}, err
	}

	score := 85
	var issues []string

	if len(latest.Components) < 3 {
		issues = append(issues, "Limited number of components may not cover all user needs")
		score -= 10
	}
	if !latest.TechnicalSpecs.Responsive {
		issues = append(issues, "CRITICAL: Design must be responsive for mobile users")
		score -= 20
	}
	if !strings.Contains(strings.ToLower(latest.TechnicalSpecs.Accessibility), "accessibility") &&
		!strings.Contains(strings.ToLower(latest.TechnicalSpecs.Accessibility), "wcag") {
		issues = append(issues, "Accessibility standards not clearly defined")
		score -= 15
	}

	review := &domain.Review{
		Score:  score,
		Passed: score >= passingScore,
		Strengths: []string{
			"Well-structured component hierarchy with clear separation of concerns",
			"Responsive design approach ensures compatibility across all devices",
			"Accessibility considerations properly integrated from the start",
			"Modern visual aesthetic aligned with current design trends",
			"Comprehensive technical specifications provided",
			"Each component has clear reasoning justifying design decisions",
		},
		Issues: issues,
		Suggestions: []string{
			"Consider adding loading states and skeleton screens for better perceived performance",
			"Implement micro-animations for improved user engagement and feedback",
			"Add dark mode toggle for user preference accommodation",
			"Include error boundary components for graceful error handling",
			"Consider implementing progressive image loading for performance",
			"Add A/B testing hooks for future optimization",
			"Include analytics tracking for user behavior insights",
		},
	}

	return domain.Artifact{
		Kind:      domain.ArtifactReview,
		CreatedAt: time.Now().UTC(),
		Review:    review,
	}, nil
}

func latestDesign(artifacts []domain.Artifact) *domain.Design {
	for i := len(artifacts) - 1; i >= 0; i-- {
		if artifacts[i].Kind == domain.ArtifactDesign && artifacts[i].Design != nil {
			return artifacts[i].Design
		}
	}
	return nil
}
