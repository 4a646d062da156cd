package model

import "strings"

// ItemStatus is the display label of an inventory item status.
type ItemStatus string

const (
	ItemStatusNone             ItemStatus = ""
	ItemStatusAvailable        ItemStatus = "Available"
	ItemStatusAwaitingPickup   ItemStatus = "Awaiting pickup"
	ItemStatusAwaitingDelivery ItemStatus = "Awaiting delivery"
	ItemStatusCheckedOut       ItemStatus = "Checked out"
	ItemStatusInTransit        ItemStatus = "In transit"
	ItemStatusMissing          ItemStatus = "Missing"
	ItemStatusPaged            ItemStatus = "Paged"
	ItemStatusOnOrder          ItemStatus = "On order"
	ItemStatusInProcess        ItemStatus = "In process"
	ItemStatusDeclaredLost     ItemStatus = "Declared lost"
	ItemStatusClaimedReturned  ItemStatus = "Claimed returned"
	ItemStatusWithdrawn        ItemStatus = "Withdrawn"
	ItemStatusLostAndPaid      ItemStatus = "Lost and paid"
	ItemStatusAgedToLost       ItemStatus = "Aged to lost"
)

var itemStatuses = []ItemStatus{
	ItemStatusNone,
	ItemStatusAvailable,
	ItemStatusAwaitingPickup,
	ItemStatusAwaitingDelivery,
	ItemStatusCheckedOut,
	ItemStatusInTransit,
	ItemStatusMissing,
	ItemStatusPaged,
	ItemStatusOnOrder,
	ItemStatusInProcess,
	ItemStatusDeclaredLost,
	ItemStatusClaimedReturned,
	ItemStatusWithdrawn,
	ItemStatusLostAndPaid,
	ItemStatusAgedToLost,
}

// ItemStatusFrom returns the status whose label equals s ignoring case,
// or ItemStatusNone when there is no match.
func ItemStatusFrom(s string) ItemStatus {
	for _, st := range itemStatuses {
		if strings.EqualFold(string(st), s) {
			return st
		}
	}
	return ItemStatusNone
}

// String returns the display label.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the known labels other than none.
func (s ItemStatus) IsValid() bool {
	return s != ItemStatusNone && ItemStatusFrom(string(s)) == s
}
