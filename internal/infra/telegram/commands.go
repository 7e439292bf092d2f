// internal/infra/telegram/commands.go
package telegram

import (
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(b *telebot.Bot, cfg *config.AppConfig, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Olá, %s! Bot do escritório pronto. Use /ajuda para ver os comandos.", c.Sender().FirstName))
		}

		logCtx.Info("User is unknown")
		return c.Send("Olá! Este bot é de uso interno do escritório. Se você é da equipe, peça ao administrador para configurar seu acesso.")
	})

	b.Handle("/ajuda", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/ajuda").WithField("sender_id", senderID)
		logCtx.Info("Processing /ajuda command")

		if senderID != cfg.AdminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("Não há comandos disponíveis para você. Este bot é de uso interno do escritório.")
		}

		var helpText strings.Builder
		helpText.WriteString("Comandos do Administrador:\n\n")
		helpText.WriteString("`/add_empresa <CNPJ> <Nome>`\n - Cadastrar uma nova empresa cliente.\n\n")
		helpText.WriteString("`/remove_empresa <CNPJ>`\n - Desativar uma empresa (o histórico é mantido).\n\n")
		helpText.WriteString("`/empresas [todas]`\n - Listar empresas. Por padrão mostra apenas as ativas.\n\n")
		helpText.WriteString("`/atribuir <CNPJ> <obrigação;obrigação;...>`\n - Atribuir obrigações a uma empresa e gerar as rotinas do mês.\n\n")
		helpText.WriteString("`/rotinas_pendentes`\n - Listar rotinas aguardando documento.\n\n")
		helpText.WriteString("`/cobranca <CNPJ> <valor> <descrição>`\n - Gerar uma cobrança PIX para uma empresa.\n\n")
		helpText.WriteString("`/ajuda`\n - Mostrar esta mensagem.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
