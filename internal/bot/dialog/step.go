package dialog

// Step is a dialogue state for one user's order-taking conversation.
type Step string

const (
	// StepIdle indicates no order is in progress; input goes through the
	// keyword router.
	StepIdle Step = "idle"
	// StepAwaitingName indicates the user is entering their full name.
	StepAwaitingName Step = "awaiting_name"
	// StepAwaitingItem indicates the user is choosing a catalog item number.
	StepAwaitingItem Step = "awaiting_item"
	// StepAwaitingQuantity indicates the user is entering a quantity for
	// the pending item.
	StepAwaitingQuantity Step = "awaiting_quantity"
	// StepAwaitingMore indicates the user is answering whether to add
	// another item.
	StepAwaitingMore Step = "awaiting_more"
)
