package draft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/molvera/gastobot/internal/domain"
)

// editField overwrites one field by wire name. No validation happens here;
// the caller re-validates before confirm. That asymmetry is the contract of
// the editField action.
func editField(d *domain.Draft, field string, value any) error {
	switch field {
	case "amount":
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("editField %q: %w", field, err)
		}
		d.Amount = &f
	case "currency":
		d.Currency = strings.ToUpper(strings.TrimSpace(toString(value)))
	case "payment_method":
		d.PaymentMethod = toString(value)
	case "purchase_date":
		d.PurchaseDate = toString(value)
	case "category":
		d.Category = toString(value)
	case "merchant":
		d.Merchant = toString(value)
	case "description":
		d.Description = toString(value)
	case "msi_total_amount":
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("editField %q: %w", field, err)
		}
		d.MSITotalAmount = &f
	default:
		return fmt.Errorf("editField: no editable field %q", field)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("value %v (%T) is not a number", v, v)
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
