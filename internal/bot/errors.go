package bot

import (
	"errors"

	"listabot/internal/domain"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, domain.ErrRowNotFound) {
		return "⚠️ La fila pudo haber cambiado en la planilla. Actualizá la lista y probá de nuevo."
	}

	if errors.Is(err, domain.ErrNothingReserved) {
		return "ℹ️ No tenés ninguna tanda reservada en este momento."
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		return "⚠️ No pude acceder a la planilla. Probá de nuevo en unos minutos."
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		return "⚠️ No entendí ese dato. Revisá el formato e intentá otra vez."
	}

	return "❌ Ocurrió un error al procesar tu pedido. Probá más tarde o avisale a un administrador."
}
