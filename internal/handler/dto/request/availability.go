package request

import (
	"time"
)

type WeeklyWindowRequest struct {
	Weekday     int `json:"weekday" binding:"min=0,max=6"`
	StartMinute int `json:"start_minute" binding:"min=0,max=1439"`
	EndMinute   int `json:"end_minute" binding:"required,min=1,max=1440"`
}

type ScheduleExceptionRequest struct {
	Kind      string    `json:"kind" binding:"required,oneof=open blackout"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type ReplaceScheduleRequest struct {
	Weekly     []WeeklyWindowRequest      `json:"weekly"`
	Exceptions []ScheduleExceptionRequest `json:"exceptions,omitempty"`
}
