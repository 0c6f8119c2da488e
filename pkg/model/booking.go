package model

import (
	"fmt"
	"time"
)

type Booking struct {
	ID           int64     `json:"id" bson:"_id"`
	Key          string    `json:"booking_key" bson:"booking_key"`
	BookedAt     time.Time `json:"booked_at" bson:"booked_at"`
	RoomName     string    `json:"room_name" bson:"room_name"`
	RoomID       int64     `json:"room_id" bson:"room_id"`
	CustomerName string    `json:"customer_name" bson:"customer_name"`
	Date         string    `json:"date" bson:"date"`
	StartTime    string    `json:"start_time" bson:"start_time"`
	EndTime      string    `json:"end_time" bson:"end_time"`
}

type BookingRequest struct {
	RoomID       int64  `json:"room_id" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,clock"`
	EndTime      string `json:"end_time" validate:"required,clock"`
}

// BookingKey is the natural key used to detect exact duplicate bookings.
func BookingKey(roomID int64, customerName, date, startTime, endTime string) string {
	return fmt.Sprintf("%d-%s-%s-%s-%s", roomID, customerName, date, startTime, endTime)
}

func (r BookingRequest) Key() string {
	return BookingKey(r.RoomID, r.CustomerName, r.Date, r.StartTime, r.EndTime)
}
