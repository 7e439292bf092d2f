package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/app"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterPixHandlers wires the billing commands. Only the firm administrator
// may issue charges.
func RegisterPixHandlers(ctx context.Context, b *telebot.Bot, pixService *app.PixService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/cobranca", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/cobranca",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Erro: você não tem permissão para executar este comando.")
		}

		args := c.Args()
		// Expected format: /cobranca <CNPJ> <valor> <descrição...>
		if len(args) < 3 {
			return c.Send("Formato inválido. Use: /cobranca <CNPJ> <valor> <descrição>")
		}

		cnpj := args[0]
		amount, err := decimal.NewFromString(strings.ReplaceAll(args[1], ",", "."))
		if err != nil {
			return c.Send(fmt.Sprintf("Valor inválido: %s", args[1]))
		}
		description := strings.Join(args[2:], " ")
		handlerLogger = handlerLogger.WithFields(logrus.Fields{"cnpj": cnpj, "amount": amount.String()})

		charge, err := pixService.ChargeCompany(ctx, cnpj, amount, description)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case idb.ErrCompanyNotFound:
				logWithError.Warn("Company for charge not found")
				return c.Send(fmt.Sprintf("Nenhuma empresa encontrada com o CNPJ %s.", cnpj))
			case app.ErrInvalidChargeAmount:
				logWithError.Warn("Non-positive charge amount")
				return c.Send("Erro: o valor da cobrança deve ser maior que zero.")
			default:
				logWithError.Error("Failed to create pix charge")
				return c.Send(fmt.Sprintf("Ocorreu um erro ao gerar a cobrança: %s", err.Error()))
			}
		}

		handlerLogger.WithField("charge_id", charge.ID).Info("Pix charge created successfully")
		note := ""
		if charge.Mock {
			note = "\n(Atenção: banco indisponível, cobrança gerada em modo simulado.)"
		}
		return c.Send(fmt.Sprintf("Cobrança de R$ %s gerada (txid %s).\nPix copia e cola:\n%s%s",
			charge.Amount.StringFixed(2), charge.TransactionID, charge.PaymentCode, note))
	})
}
