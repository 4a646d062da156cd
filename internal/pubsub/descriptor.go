package pubsub

// EventTypeLogRecord is the event type carrying circulation log records.
const EventTypeLogRecord = "LOG_RECORD"

// Descriptor announces which events a module publishes and subscribes to.
type Descriptor struct {
	ModuleID      string         `json:"moduleId"`
	Subscriptions []Subscription `json:"subscriptions"`
	Publications  []Publication  `json:"publications"`
}

type Subscription struct {
	EventType       string `json:"eventType"`
	CallbackAddress string `json:"callbackAddress"`
}

type Publication struct {
	EventType   string `json:"eventType"`
	Description string `json:"description,omitempty"`
	EventTTL    int    `json:"eventTTL,omitempty"`
	Signed      bool   `json:"signed"`
}

// DefaultDescriptor returns the descriptor of the audit module.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		ModuleID: "mod-audit",
		Subscriptions: []Subscription{
			{EventType: EventTypeLogRecord, CallbackAddress: "/audit/handlers/log-record"},
		},
		Publications: []Publication{},
	}
}
