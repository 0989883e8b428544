package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/events"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

// Per-workflow dispatch statuses.
const (
	DispatchStatusTriggered     = "triggered"
	DispatchStatusPublishFailed = "publish_failed"
)

// DispatchDetail records the outcome for one matched workflow.
type DispatchDetail struct {
	WorkflowID string `json:"workflowId"`
	Status     string `json:"status"`
}

// DispatchResult reports what a trigger event matched. Runs execute
// asynchronously; the result only says what was enqueued.
type DispatchResult struct {
	Executed int              `json:"executed"`
	Details  []DispatchDetail `json:"details"`
}

// Dispatcher selects the active workflows matching a trigger event and
// publishes one TriggerFired event per match for the workers to consume.
type Dispatcher struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
	workerID    string
}

func NewDispatcher(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger, workerID string) *Dispatcher {
	return &Dispatcher{
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "trigger_dispatcher"),
		workerID:    workerID,
	}
}

// Dispatch fires every active workflow whose trigger matches the event.
// Inactive workflows are never selected; DEAL_STAGE_CHANGED workflows with a
// configured target stage additionally require the event's stage to match.
func (d *Dispatcher) Dispatch(ctx context.Context, triggerType string, triggerData map[string]any) (*DispatchResult, error) {
	workflows, err := d.persistence.ActiveWorkflowsByTrigger(ctx, triggerType)
	if err != nil {
		return nil, fmt.Errorf("failed to select workflows for trigger %s: %w", triggerType, err)
	}

	result := &DispatchResult{Details: make([]DispatchDetail, 0, len(workflows))}

	for _, workflow := range workflows {
		if !d.matches(workflow, triggerType, triggerData) {
			continue
		}

		event := events.TriggerFired{
			BaseEvent: events.BaseEvent{
				ID:         "evt-" + d.workerID + "-" + fmt.Sprint(time.Now().UnixNano()),
				Type:       events.TriggerFiredEvent,
				Timestamp:  time.Now().UTC(),
				WorkflowID: workflow.ID,
				WorkerID:   d.workerID,
			},
			TriggerType: triggerType,
			TriggerData: triggerData,
		}

		err := d.publisher.Publish(ctx, workflow.ID, event)
		if err != nil {
			d.logger.ErrorContext(ctx, "Failed to publish trigger event", "workflow_id", workflow.ID, "error", err)

			result.Details = append(result.Details, DispatchDetail{WorkflowID: workflow.ID, Status: DispatchStatusPublishFailed})

			continue
		}

		d.logger.InfoContext(ctx, "Trigger dispatched", "workflow_id", workflow.ID, "trigger_type", triggerType)

		result.Executed++
		result.Details = append(result.Details, DispatchDetail{WorkflowID: workflow.ID, Status: DispatchStatusTriggered})
	}

	return result, nil
}

// matches applies trigger-specific filters beyond the type match.
func (d *Dispatcher) matches(workflow *models.Workflow, triggerType string, triggerData map[string]any) bool {
	if triggerType != models.TriggerDealStageChanged {
		return true
	}

	targetStage, ok := workflow.TriggerConfig["targetStage"].(string)
	if !ok || targetStage == "" {
		// No stage filter configured, every stage change matches.
		return true
	}

	stage := models.Stringify(triggerData["stage"])

	return stage == targetStage
}
