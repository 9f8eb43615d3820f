package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/molvera/gastobot/internal/domain"
)

func (h *Handler) promptFor(d *domain.Draft) string {
	switch d.State {
	case domain.StateAwaitingMSIMonths:
		return "¿A cuántos meses sin intereses?"

	case domain.StateAwaitingPaymentMethod:
		var sb strings.Builder
		if d.AmexAmbiguous {
			sb.WriteString("Tienes más de una Amex. ")
		}
		sb.WriteString("¿Con qué método pagaste?")
		return sb.String()

	case domain.StateReadyToConfirm:
		return summary(d) + "\n¿Confirmo? (sí/no)"

	default:
		return "Cuéntame un gasto, p.ej. \"230 Uber ayer\"."
	}
}

func summary(d *domain.Draft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Gasto: %s %s", formatAmount(*d.Amount), d.Currency)
	if d.IsMSI && d.MSIMonths != nil && d.MSITotalAmount != nil {
		fmt.Fprintf(&sb, " al mes (%s a %d MSI)", formatAmount(*d.MSITotalAmount), *d.MSIMonths)
	}
	fmt.Fprintf(&sb, "\nFecha: %s", d.PurchaseDate)
	fmt.Fprintf(&sb, "\nMétodo: %s", d.PaymentMethod)
	fmt.Fprintf(&sb, "\nCategoría: %s", d.Category)
	if d.Merchant != "" {
		fmt.Fprintf(&sb, "\nComercio: %s", d.Merchant)
	}
	if d.TripID != "" {
		fmt.Fprintf(&sb, "\nViaje: %s (responde \"sin viaje\" para excluirlo)", d.TripName)
	}
	if d.FXRequired {
		fmt.Fprintf(&sb, "\nSe convertirá a %s al confirmar", d.BaseCurrency)
	}
	return sb.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
