package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
)

const (
	EventOrderCaptured    = "payment.order_captured"
	EventOrderCancelled   = "payment.order_cancelled"
	EventOrderRefunded    = "payment.order_refunded"
	EventPayoutDispatched = "payment.payout_dispatched"
	EventPayoutFailed     = "payment.payout_failed"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventOrderCaptured, EventOrderCancelled, EventOrderRefunded,
		EventPayoutDispatched, EventPayoutFailed:
		return true
	default:
		return false
	}
}

func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventOrderCaptured, EventPayoutDispatched, EventPayoutFailed:
		return CanonicalEventClassDomain
	case EventOrderCancelled, EventOrderRefunded:
		return CanonicalEventClassAnalyticsOnly
	default:
		return ""
	}
}
