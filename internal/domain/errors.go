package domain

import "errors"

// Business errors crossing the core boundary. All of them are recoverable
// and user-facing: callers re-prompt with the message instead of aborting the
// conversation. They are returned, never panicked.
var (
	// ErrInvalidAmount — amount missing or not positive (for installment
	// purchases this refers to the total).
	ErrInvalidAmount = errors.New("no encontré un monto válido; indica la cantidad, p.ej. \"230 Uber\"")

	// ErrInvalidMSIMonths — installment months present but outside (1,60].
	ErrInvalidMSIMonths = errors.New("los meses sin intereses deben estar entre 2 y 60")

	// ErrAmbiguousPaymentMethod — a bare brand name resolves to more than
	// one allowed method.
	ErrAmbiguousPaymentMethod = errors.New("esa tarjeta es ambigua; indica el método completo")

	// ErrInvalidPaymentMethod — the method is not in the allow-list.
	ErrInvalidPaymentMethod = errors.New("método de pago no reconocido")

	// ErrInvalidDate — the purchase date is not YYYY-MM-DD after every
	// resolution step.
	ErrInvalidDate = errors.New("fecha inválida; usa el formato YYYY-MM-DD")

	// ErrUnknownAction — an action the state machine does not recognize.
	ErrUnknownAction = errors.New("acción desconocida")

	// ErrNoDraft — the conversation has no live draft to act on.
	ErrNoDraft = errors.New("no hay un gasto en curso")
)
