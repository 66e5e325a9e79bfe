package booking

// Observer is notified of booking engine outcomes, for metrics.
type Observer interface {
	Created(b *Booking)
	StatusChanged(b *Booking, from Status)
	ConfirmationConflict(bookingID string)
	PriceRejected(boatID string)
	Cancelled(b *Booking)
	CancellationRefused(bookingID string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Created(*Booking)               {}
func (NopObserver) StatusChanged(*Booking, Status) {}
func (NopObserver) ConfirmationConflict(string)    {}
func (NopObserver) PriceRejected(string)           {}
func (NopObserver) Cancelled(*Booking)             {}
func (NopObserver) CancellationRefused(string)     {}
