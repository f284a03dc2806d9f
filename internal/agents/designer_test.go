package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

func TestDesigner_Execute(t *testing.T) {
	d := NewDesigner(0)
	assert.Equal(t, domain.ArtifactDesign, d.Kind())

	artifact, err := d.Execute(context.Background(), Input{Requirements: "Modern landing page design"})
	require.NoError(t, err)

	assert.Equal(t, domain.ArtifactDesign, artifact.Kind)
	assert.False(t, artifact.CreatedAt.IsZero())
	require.NotNil(t, artifact.Design)
	assert.Nil(t, artifact.Review)

	assert.GreaterOrEqual(t, len(artifact.Design.Components), 3)
	for _, c := range artifact.Design.Components {
		assert.NotEmpty(t, c.Component)
		assert.NotEmpty(t, c.Structure)
		assert.NotEmpty(t, c.Styling)
		assert.NotEmpty(t, c.Reasoning)
	}
	assert.True(t, artifact.Design.TechnicalSpecs.Responsive)
	assert.NotEmpty(t, artifact.Design.TechnicalSpecs.Framework)
}

func TestDesigner_Execute_Cancelled(t *testing.T) {
	d := NewDesigner(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Execute(ctx, Input{Requirements: "anything"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDesigner_Execute_Timeout(t *testing.T) {
	d := NewDesigner(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Execute(ctx, Input{Requirements: "anything"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
