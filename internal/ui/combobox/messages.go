package combobox

// FetchResultMsg carries a finished lazy load back to the component that
// started it
type FetchResultMsg[T any] struct {
	ComponentID string
	Token       string
	Items       []T
	Err         error
}
