package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

func designInput(design *domain.Design) Input {
	return Input{
		Requirements: "Modern landing page design",
		Artifacts: []domain.Artifact{
			{Kind: domain.ArtifactDesign, CreatedAt: time.Now().UTC(), Design: design},
		},
	}
}

func TestReviewer_Execute_PassingDesign(t *testing.T) {
	r := NewReviewer(0)
	assert.Equal(t, domain.ArtifactReview, r.Kind())

	d := NewDesigner(0)
	generated, err := d.Execute(context.Background(), Input{Requirements: "Modern landing page design"})
	require.NoError(t, err)

	artifact, err := r.Execute(context.Background(), designInput(generated.Design))
	require.NoError(t, err)

	require.NotNil(t, artifact.Review)
	assert.Equal(t, 85, artifact.Review.Score)
	assert.True(t, artifact.Review.Passed)
	assert.Empty(t, artifact.Review.Issues)
	assert.NotEmpty(t, artifact.Review.Strengths)
	assert.NotEmpty(t, artifact.Review.Suggestions)
}

func TestReviewer_Execute_Deductions(t *testing.T) {
	r := NewReviewer(0)

	t.Run("too few components", func(t *testing.T) {
		design := &domain.Design{
			Components: []domain.DesignComponent{{Component: "Header"}},
			TechnicalSpecs: domain.TechnicalSpecs{
				Responsive:    true,
				Accessibility: "WCAG 2.1 AA compliant",
			},
		}
		artifact, err := r.Execute(context.Background(), designInput(design))
		require.NoError(t, err)
		assert.Equal(t, 75, artifact.Review.Score)
		assert.False(t, artifact.Review.Passed)
		assert.Len(t, artifact.Review.Issues, 1)
	})

	t.Run("not responsive", func(t *testing.T) {
		design := &domain.Design{
			Components: []domain.DesignComponent{
				{Component: "Header"}, {Component: "Hero"}, {Component: "Footer"},
			},
			TechnicalSpecs: domain.TechnicalSpecs{
				Responsive:    false,
				Accessibility: "full accessibility support",
			},
		}
		artifact, err := r.Execute(context.Background(), designInput(design))
		require.NoError(t, err)
		assert.Equal(t, 65, artifact.Review.Score)
		assert.False(t, artifact.Review.Passed)
	})

	t.Run("accessibility undefined", func(t *testing.T) {
		design := &domain.Design{
			Components: []domain.DesignComponent{
				{Component: "Header"}, {Component: "Hero"}, {Component: "Footer"},
			},
			TechnicalSpecs: domain.TechnicalSpecs{
				Responsive:    true,
				Accessibility: "none",
			},
		}
		artifact, err := r.Execute(context.Background(), designInput(design))
		require.NoError(t, err)
		assert.Equal(t, 70, artifact.Review.Score)
		assert.False(t, artifact.Review.Passed)
	})
}

func TestReviewer_Execute_NoDesign(t *testing.T) {
	r := NewReviewer(0)

	_, err := r.Execute(context.Background(), Input{Requirements: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no design artifact")
}
