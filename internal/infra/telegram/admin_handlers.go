package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/app"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, admin service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/add_empresa", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_empresa",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		args := c.Args()
		// Expected format: /add_empresa <CNPJ> <Nome da empresa...>
		if len(args) < 2 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Formato inválido. Use: /add_empresa <CNPJ> <Nome da empresa>")
		}

		cnpj := args[0]
		name := strings.Join(args[1:], " ")
		handlerLogger = handlerLogger.WithFields(logrus.Fields{"cnpj": cnpj, "name": name})

		newCompany, err := adminService.AddCompany(ctx, c.Sender().ID, name, cnpj)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Erro: você não tem permissão para executar este comando.")
			case app.ErrInvalidCNPJ:
				logWithError.Warn("Invalid CNPJ")
				return c.Send("Erro: o CNPJ deve conter 14 dígitos.")
			case app.ErrCompanyAlreadyExists:
				logWithError.Warn("Company already exists")
				return c.Send(fmt.Sprintf("Erro: já existe uma empresa com o CNPJ %s.", cnpj))
			default:
				logWithError.Error("Failed to add company")
				return c.Send(fmt.Sprintf("Ocorreu um erro ao cadastrar a empresa: %s", err.Error()))
			}
		}

		handlerLogger.WithField("company_id", newCompany.ID).Info("Company added successfully")
		return c.Send(fmt.Sprintf("Empresa %s (CNPJ %s) cadastrada com sucesso.", newCompany.Name, newCompany.CNPJ))
	})

	b.Handle("/remove_empresa", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_empresa",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		args := c.Args()
		// Expected format: /remove_empresa <CNPJ>
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /remove_empresa <CNPJ>")
		}
		handlerLogger = handlerLogger.WithField("cnpj", args[0])

		removed, err := adminService.RemoveCompany(ctx, c.Sender().ID, args[0])
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Erro: você não tem permissão para executar este comando.")
			case idb.ErrCompanyNotFound:
				logWithError.Warn("Company to remove not found")
				return c.Send(fmt.Sprintf("Nenhuma empresa encontrada com o CNPJ %s.", args[0]))
			case app.ErrCompanyAlreadyInactive:
				logWithError.Warn("Company already inactive")
				return c.Send(fmt.Sprintf("A empresa %s já estava desativada.", removed.Name))
			default:
				logWithError.Error("Failed to remove company")
				return c.Send(fmt.Sprintf("Ocorreu um erro ao desativar a empresa: %s", err.Error()))
			}
		}

		handlerLogger.WithField("company_id", removed.ID).Info("Company deactivated successfully")
		return c.Send(fmt.Sprintf("Empresa %s (CNPJ %s) desativada com sucesso.", removed.Name, removed.CNPJ))
	})

	b.Handle("/empresas", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/empresas",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		all := len(c.Args()) > 0 && strings.EqualFold(c.Args()[0], "todas")
		companies, err := adminService.ListCompanies(ctx, c.Sender().ID, all)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list companies")
			return c.Send(fmt.Sprintf("Ocorreu um erro ao listar as empresas: %s", err.Error()))
		}
		if len(companies) == 0 {
			return c.Send("Nenhuma empresa cadastrada.")
		}

		var sb strings.Builder
		sb.WriteString("Empresas:\n")
		for _, cmp := range companies {
			status := "ativa"
			if !cmp.Active {
				status = "desativada"
			}
			sb.WriteString(fmt.Sprintf("- %s (CNPJ %s, %s) — %d obrigações atribuídas\n",
				cmp.Name, cmp.CNPJ, status, len(cmp.ObligationRefs)))
		}
		return c.Send(sb.String())
	})

	b.Handle("/atribuir", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/atribuir",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		args := c.Args()
		// Expected format: /atribuir <CNPJ> <obrigação;obrigação;...>
		// References may be obligation ids or display names.
		if len(args) < 2 {
			return c.Send("Formato inválido. Use: /atribuir <CNPJ> <obrigação;obrigação;...>")
		}

		cnpj := args[0]
		refs := strings.Split(strings.Join(args[1:], " "), ";")
		handlerLogger = handlerLogger.WithFields(logrus.Fields{"cnpj": cnpj, "ref_count": len(refs)})

		updated, err := adminService.AssignObligations(ctx, c.Sender().ID, cnpj, refs)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Erro: você não tem permissão para executar este comando.")
			case idb.ErrCompanyNotFound:
				logWithError.Warn("Company for assignment not found")
				return c.Send(fmt.Sprintf("Nenhuma empresa encontrada com o CNPJ %s.", cnpj))
			default:
				logWithError.Error("Failed to assign obligations")
				return c.Send(fmt.Sprintf("Ocorreu um erro ao atribuir as obrigações: %s", err.Error()))
			}
		}

		handlerLogger.WithField("company_id", updated.ID).Info("Obligations assigned successfully")
		return c.Send(fmt.Sprintf("Obrigações atualizadas para %s: %d referências. As rotinas do mês serão geradas em instantes.",
			updated.Name, len(updated.ObligationRefs)))
	})

	b.Handle("/rotinas_pendentes", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/rotinas_pendentes",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		routines, err := adminService.PendingRoutines(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list pending routines")
			return c.Send(fmt.Sprintf("Ocorreu um erro ao listar as rotinas: %s", err.Error()))
		}
		if len(routines) == 0 {
			return c.Send("Nenhuma rotina pendente. Tudo em dia.")
		}

		var sb strings.Builder
		sb.WriteString("Rotinas aguardando documento:\n")
		for _, rt := range routines {
			sb.WriteString(fmt.Sprintf("- %s (competência %s, vence %s) [%s]\n",
				rt.ObligationName, rt.Competence, rt.Deadline.Format("02/01/2006"), rt.Status))
		}
		return c.Send(sb.String())
	})
}
