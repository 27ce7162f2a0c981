package storefront

type ConfigurationStatus string

const (
	ConfigDraft     ConfigurationStatus = "draft"
	ConfigConfirmed ConfigurationStatus = "confirmed"
	ConfigOrdered   ConfigurationStatus = "ordered"
	ConfigPurchased ConfigurationStatus = "purchased"
	ConfigCancelled ConfigurationStatus = "cancelled"
)

// Forward-only, cancellation is the only sideways move.
var configNext = map[ConfigurationStatus]map[ConfigurationStatus]bool{
	ConfigDraft:     {ConfigConfirmed: true, ConfigOrdered: true, ConfigCancelled: true},
	ConfigConfirmed: {ConfigOrdered: true, ConfigCancelled: true},
	ConfigOrdered:   {ConfigPurchased: true, ConfigCancelled: true},
	ConfigPurchased: {},
	ConfigCancelled: {},
}

func (s ConfigurationStatus) Valid() bool {
	_, ok := configNext[s]
	return ok
}

func (s ConfigurationStatus) CanTransition(to ConfigurationStatus) bool {
	return configNext[s][to]
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:   {OrderApproved: true, OrderCancelled: true},
	OrderApproved:  {OrderPaid: true, OrderCancelled: true},
	OrderPaid:      {OrderCompleted: true},
	OrderCompleted: {},
	OrderCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderNext[s]
	return ok
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return orderNext[s][to]
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

var appointmentNext = map[AppointmentStatus]map[AppointmentStatus]bool{
	AppointmentScheduled: {AppointmentCompleted: true, AppointmentCancelled: true},
	AppointmentCompleted: {},
	AppointmentCancelled: {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentNext[s]
	return ok
}

func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	return appointmentNext[s][to]
}
