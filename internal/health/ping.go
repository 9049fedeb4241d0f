package health

import "context"

// HealthPinger is implemented by components that can be actively probed,
// such as the entry store and the AI provider. HealthPing returns nil
// when the component is reachable and serving.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
