package calendar

// Модели Microsoft Graph /me/calendar/getSchedule

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphScheduleRequest struct {
	Schedules                []string      `json:"schedules"`
	StartTime                graphDateTime `json:"startTime"`
	EndTime                  graphDateTime `json:"endTime"`
	AvailabilityViewInterval int           `json:"availabilityViewInterval"`
}

type graphScheduleItem struct {
	Status string        `json:"status"`
	Start  graphDateTime `json:"start"`
	End    graphDateTime `json:"end"`
}

type graphScheduleInformation struct {
	ScheduleID    string              `json:"scheduleId"`
	ScheduleItems []graphScheduleItem `json:"scheduleItems"`
	Error         *graphError         `json:"error,omitempty"`
}

type graphScheduleResponse struct {
	Value []graphScheduleInformation `json:"value"`
}

type graphError struct {
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}
