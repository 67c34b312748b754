package consumer

import (
	"context"
	"encoding/json"

	"go-ems/internal/events"
	"go-ems/internal/skill"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSkillSync applies skill_sync_requested events published through
// the employee-service outbox. Create is append-only on the skills side,
// so a redelivered batch inserts duplicate rows rather than failing; the
// message is committed only after a successful write.
func ConsumeSkillSync(
	ctx context.Context,
	reader *kafkago.Reader,
	skillService skill.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.skill_sync")
	log.Info("skill sync consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("skill sync consumer stopped")
				return
			}
			log.Error("fetch skill sync message failed", zap.Error(err))
			continue
		}

		var event events.SkillSyncRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode skill_sync_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		dtos := make([]skill.SkillDTO, 0, len(event.Skills))
		for _, p := range event.Skills {
			dtos = append(dtos, skill.SkillDTO{
				EmployeeID: p.EmployeeID,
				SkillName:  p.SkillName,
			})
		}

		if _, err := skillService.CreateSkills(ctx, dtos); err != nil {
			log.Error("create skills from event failed",
				zap.Int64("employee_id", event.EmployeeID),
				zap.Int("skills", len(dtos)),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit skill sync message failed", zap.Error(err))
			continue
		}

		log.Info("skills created from skill_sync_requested event",
			zap.Int64("employee_id", event.EmployeeID),
			zap.Int("skills", len(dtos)),
		)
	}
}

// ConsumeEmployeeLifecycle reacts to employee_deleted events by dropping
// the skills that reference the removed employee. Delete-by-employee is
// idempotent, so redelivery is safe to commit.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	skillService skill.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeDeletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_deleted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := skillService.DeleteByEmployee(ctx, event.EmployeeID); err != nil {
			log.Error("delete skills for removed employee failed",
				zap.Int64("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("skills removed for deleted employee",
			zap.Int64("employee_id", event.EmployeeID),
		)
	}
}
