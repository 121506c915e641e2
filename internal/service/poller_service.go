package service

import (
	"context"
	"time"

	"ai-carousel-bot/internal/pkg/logger"
	"ai-carousel-bot/pkg/telegram"
)

type IPollerService interface {
	Run(ctx context.Context) error
}

// pollerService drives the inbound side: a long-poll loop that hands every
// message to the conversation engine. Messages are handled in their own
// goroutines, so one user's slow turn never delays another's.
type pollerService struct {
	client       *telegram.Client
	conversation IConversationService
	logger       logger.ILogger
}

func NewPollerService(client *telegram.Client, conversation IConversationService, log logger.ILogger) IPollerService {
	return &pollerService{
		client:       client,
		conversation: conversation,
		logger:       log,
	}
}

func (p *pollerService) Run(ctx context.Context) error {
	if err := p.client.SetMyCommands(ctx, []telegram.BotCommand{
		{Command: "start", Description: "Выбрать режим работы"},
		{Command: "help", Description: "Как пользоваться ботом"},
	}); err != nil {
		p.logger.Warn("POLLER_SERVICE", "failed to register commands", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("POLLER_SERVICE", "getUpdates failed", map[string]interface{}{
				"error": err.Error(),
			})
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			go p.conversation.HandleMessage(ctx, msg)
		}
	}
}
