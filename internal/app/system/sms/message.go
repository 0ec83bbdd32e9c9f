// internal/app/system/sms/message.go
package sms

import (
	"fmt"
	"time"
)

// bookingDateLayout is how event dates read inside the confirmation SMS.
const bookingDateLayout = "2 Jan 2006"

// BookingConfirmation renders the fixed confirmation template:
//
//	Thank you for booking "{title}". Your booking is confirmed for {date}.
func BookingConfirmation(eventTitle string, eventDate time.Time) string {
	return fmt.Sprintf("Thank you for booking %q. Your booking is confirmed for %s.",
		eventTitle, eventDate.Format(bookingDateLayout))
}
