package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/slack-go/slack"
)

// slackNotifier posts workflow events to a Slack channel as Block Kit
// messages.
type slackNotifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.Notifier = &slackNotifier{}

// NewSlack creates a Slack-backed notifier posting to the given channel
func NewSlack(token, channelID string) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}
	return &slackNotifier{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func eventText(event model.Event) (headline, detail string) {
	doc := event.Document
	ref := fmt.Sprintf("%s / item %d / document %d", doc.GroupID, doc.ItemNumber, doc.DocumentNumber)

	switch event.Kind {
	case model.EventApprovalAdvanced:
		return fmt.Sprintf("Approval advanced: %s", doc.Name),
			fmt.Sprintf("%s approved (%s)", event.TargetName, ref)
	case model.EventAllSignaturesComplete:
		return fmt.Sprintf("All signatures collected: %s", doc.Name),
			fmt.Sprintf("every signer has signed (%s)", ref)
	case model.EventDeadlineReminderDue:
		return fmt.Sprintf("Approval deadline reminder (%s): %s", event.Reminder, doc.Name),
			fmt.Sprintf("deadline approaching (%s)", ref)
	case model.EventDocumentCompleted:
		return fmt.Sprintf("Document completed: %s", doc.Name),
			fmt.Sprintf("all approvals and signatures are complete (%s)", ref)
	default:
		return fmt.Sprintf("Workflow event %s: %s", event.Kind, doc.Name), ref
	}
}

func (n *slackNotifier) Notify(ctx context.Context, event model.Event) error {
	headline, detail := eventText(event)

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*", headline), false, false),
			nil, nil,
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, detail, false, false),
		),
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(headline, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("channel", n.channelID), goerr.V("kind", event.Kind))
	}
	return nil
}
