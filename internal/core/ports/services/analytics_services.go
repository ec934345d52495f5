package services

// AnalyticsSvc records product analytics events. Implementations must be
// safe to call when analytics is unconfigured (no-op).
type AnalyticsSvc interface {
	Capture(distinctID string, event string, properties map[string]any)
}
