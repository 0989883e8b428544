// Package cmd provides common initialization shared by the relay binaries.
package cmd

import (
	"log/slog"
	"os"

	"github.com/lumamark/relay/pkg/ai"
	"github.com/lumamark/relay/pkg/channels"
	"github.com/lumamark/relay/pkg/crm"
	"github.com/lumamark/relay/pkg/email"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/registry"
	"github.com/lumamark/relay/pkg/steps/aiagent"
	"github.com/lumamark/relay/pkg/steps/condition"
	"github.com/lumamark/relay/pkg/steps/createtask"
	emailstep "github.com/lumamark/relay/pkg/steps/email"
	"github.com/lumamark/relay/pkg/steps/httprequest"
	"github.com/lumamark/relay/pkg/steps/logmsg"
	"github.com/lumamark/relay/pkg/steps/notification"
	"github.com/lumamark/relay/pkg/steps/slackmsg"
	"github.com/lumamark/relay/pkg/steps/sms"
	"github.com/lumamark/relay/pkg/steps/updatedeal"
	"github.com/lumamark/relay/pkg/steps/wait"
	whatsappstep "github.com/lumamark/relay/pkg/steps/whatsapp"
)

// NewRegistry builds the step handler registry with every native step type
// registered against its dependencies. Credentials come from the environment;
// steps whose integration lacks credentials run in their mock mode.
func NewRegistry(logger *slog.Logger, p persistence.Persistence, channelRegistry *channels.Registry) *registry.Registry {
	mailer := email.NewResendMailer(logger, os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"))
	agent := ai.NewOpenAIAgent(logger, os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
	crmService := crm.NewService(p, logger)

	reg := registry.NewRegistry(logger)

	reg.RegisterHandler(emailstep.NewFactory(mailer))
	reg.RegisterHandler(wait.NewFactory())
	reg.RegisterHandler(logmsg.NewFactory())
	reg.RegisterHandler(condition.NewFactory())
	reg.RegisterHandler(aiagent.NewFactory(agent))
	reg.RegisterHandler(slackmsg.NewFactory(os.Getenv("SLACK_WEBHOOK_URL")))
	reg.RegisterHandler(httprequest.NewFactory())
	reg.RegisterHandler(sms.NewFactory())
	reg.RegisterHandler(whatsappstep.NewFactory(channelRegistry))
	reg.RegisterHandler(createtask.NewFactory(crmService))
	reg.RegisterHandler(updatedeal.NewFactory(crmService))
	reg.RegisterHandler(notification.NewFactory(crmService))

	return reg
}
