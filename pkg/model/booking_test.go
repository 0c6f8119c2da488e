package model

import "testing"

func TestBookingKey(t *testing.T) {
	req := BookingRequest{
		RoomID:       3,
		CustomerName: "Alice",
		Date:         "2024-05-01",
		StartTime:    "09:00",
		EndTime:      "10:30",
	}

	want := "3-Alice-2024-05-01-09:00-10:30"
	if got := req.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got := BookingKey(3, "Alice", "2024-05-01", "09:00", "10:30"); got != want {
		t.Errorf("BookingKey() = %q, want %q", got, want)
	}
}
