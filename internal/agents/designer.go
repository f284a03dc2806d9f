package agents

import (
	"context"
	"time"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// Designer is the design-generation stage. The current implementation
// synthesizes a landing-page design locally; swapping in a real LLM-backed
// generator only requires replacing Execute.
type Designer struct {
	// Delay models agent processing latency. Tests set it to zero.
	Delay time.Duration
}

// NewDesigner creates a design-generation stage with the given synthetic latency.
func NewDesigner(delay time.Duration) *Designer {
	return &Designer{Delay: delay}
}

func (d *Designer) Kind() domain.ArtifactKind {
	return domain.ArtifactDesign
}

// Execute produces a design artifact from the project requirements.
func (d *Designer) Execute(ctx context.Context, in Input) (domain.Artifact, error) {
	if err := simulate(ctx, d.Delay); err != nil {
		return domain.Artifact{}, err
	}

	design := &domain.Design{
		Components: []domain.DesignComponent{
			{
				Component: "Header Component",
				Structure: "Logo + Navigation Menu + CTA Button + Mobile Hamburger",
				Styling:   "Dark gradient (slate-900 to slate-800), white text, glass morphism effect, sticky positioning",
				Reasoning: "Modern header with clear visual hierarchy. Sticky positioning ensures constant navigation access. Glass morphism adds premium feel.",
			},
			{
				Component: "Hero Section",
				Structure: "Large Heading + Subheading + Hero Image/Video + Dual CTA Buttons + Trust Indicators",
				Styling:   "Full viewport height, gradient background, bold typography (4xl-6xl), animated elements, responsive grid",
				Reasoning: "Eye-catching hero section designed to immediately capture attention and communicate value proposition. Dual CTAs provide primary and secondary actions.",
			},
			{
				Component: "Features Grid",
				Structure: "3-column grid with icon cards, each containing: Icon + Title + Description + Learn More link",
				Styling:   "Card-based layout with shadows, hover lift effect, consistent spacing (gap-6), rounded corners (rounded-xl)",
				Reasoning: "Scannable layout that highlights key features. Card design allows easy content digestion. Hover effects add interactivity.",
			},
			{
				Component: "Social Proof Section",
				Structure: "Customer testimonials carousel + Client logos grid + Statistics counter",
				Styling:   "Alternating background color, contained width, auto-scrolling carousel, fade animations",
				Reasoning: "Builds trust through social validation. Statistics provide concrete proof of value. Testimonials add human element.",
			},
			{
				Component: "Footer Component",
				Structure: "Multi-column layout: Company Info + Quick Links + Resources + Newsletter Signup + Social Links",
				Styling:   "Dark background (slate-900), organized columns, subtle borders, responsive stack on mobile",
				Reasoning: "Comprehensive footer providing easy access to all important links and information. Newsletter signup captures leads.",
			},
		},
		TechnicalSpecs: domain.TechnicalSpecs{
			Framework:     "React 18 with TypeScript",
			Styling:       "Tailwind CSS v3 with custom theme extensions",
			Responsive:    true,
			Accessibility: "WCAG 2.1 AA compliant with ARIA labels, semantic HTML, keyboard navigation support",
		},
	}

	return domain.Artifact{
		Kind:      domain.ArtifactDesign,
		CreatedAt: time.Now().UTC(),
		Design:    design,
	}, nil
}
