// Package events broadcasts project status changes over Redis Pub/Sub so
// dashboards can follow a pipeline live instead of polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// channelPrefix namespaces per-project event channels: projects:events:{id}.
const channelPrefix = "projects:events:"

// Publisher publishes project snapshots after committed status changes.
// A nil client disables publishing, so callers never need to branch.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a publisher on the given Redis client (may be nil).
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Channel returns the event channel name for a project id.
func Channel(projectID string) string {
	return fmt.Sprintf("%s%s", channelPrefix, projectID)
}

// PublishStatusChange publishes the project JSON to its event channel.
// Publishing is best effort; failures are logged and never block the pipeline.
func (p *Publisher) PublishStatusChange(ctx context.Context, project *domain.Project) {
	if p == nil || p.client == nil || project == nil {
		return
	}
	payload, err := json.Marshal(project)
	if err != nil {
		log.Printf("[warn] operation=publish_status project=%s error=%v", project.ID, err)
		return
	}
	if err := p.client.Publish(ctx, Channel(project.ID), payload).Err(); err != nil {
		log.Printf("[warn] operation=publish_status project=%s error=%v", project.ID, err)
	}
}
