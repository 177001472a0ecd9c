package order

// State tracks an order-creation run through its fixed step sequence. Steps
// execute strictly in order; any failure before StateOrderCommitted leaves no
// durable trace, while a clear failure after it leaves a committed order with
// a non-cleared cart.
type State string

const (
	StateStarted         State = "started"
	StateCartRead        State = "cart_read"
	StatePriceReconciled State = "price_reconciled"
	StatePromptAssembled State = "prompt_assembled"
	StateOrderCommitted  State = "order_committed"
	StateCartCleared     State = "cart_cleared"
)
