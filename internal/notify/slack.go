package notify

import (
	"fmt"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Workflow lifecycle events.
const (
	EventStart   = "on_start"
	EventSuccess = "on_success"
	EventFailure = "on_failure"
)

// Notifier posts workflow lifecycle messages to Slack. When no bot token
// is configured it degrades to a no-op so callers never need to branch.
type Notifier struct {
	client    *slack.Client
	channelID string
	logger    func(string, ...any)
}

// NewNotifier builds a notifier from viper config and the environment.
func NewNotifier(logger func(string, ...any)) *Notifier {
	n := &Notifier{logger: logger}

	if !viper.GetBool("notifications.slack.enabled") {
		return n
	}

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		if n.logger != nil {
			n.logger("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		}
		return n
	}

	n.client = slack.New(botToken)
	n.channelID = viper.GetString("notifications.slack.channel")
	return n
}

// Enabled reports whether messages will actually be sent.
func (n *Notifier) Enabled() bool {
	return n.client != nil
}

// Send posts a message if the event is enabled in config.
func (n *Notifier) Send(event, message string) error {
	if n.client == nil {
		return nil
	}
	if !viper.GetBool("notifications.slack.events." + event) {
		return nil
	}

	_, _, err := n.client.PostMessage(
		n.channelID,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	return nil
}

// WorkflowStarted announces a new run.
func (n *Notifier) WorkflowStarted(project, taskID string) error {
	return n.Send(EventStart, fmt.Sprintf(":rocket: Workflow started for *%s* (task `%s`)", project, taskID))
}

// WorkflowCompleted announces a finished run.
func (n *Notifier) WorkflowCompleted(project, taskID string, stories int) error {
	return n.Send(EventSuccess, fmt.Sprintf(":white_check_mark: Workflow for *%s* completed: %d user stories (task `%s`)", project, stories, taskID))
}

// WorkflowFailed announces a failed run.
func (n *Notifier) WorkflowFailed(project, taskID string, cause error) error {
	return n.Send(EventFailure, fmt.Sprintf(":x: Workflow for *%s* failed: %v (task `%s`)", project, cause, taskID))
}
