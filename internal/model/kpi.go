package model

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type StateDistribution struct {
	UserID       string       `json:"user_id"`
	Distribution []StateCount `json:"distribution"`
	Total        int          `json:"total"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type MonthlyCompleted struct {
	UserID         string `json:"user_id"`
	Month          string `json:"month"`
	CompletedTasks int    `json:"completed_tasks"`
}

type DailyCount struct {
	Date    string `json:"date"`
	DayName string `json:"day_name"`
	Count   int    `json:"count"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CompletedPerDay struct {
	UserID     string       `json:"user_id"`
	Days       int          `json:"days"`
	TotalTasks int          `json:"total_tasks"`
	DateRange  DateRange    `json:"date_range"`
	TasksByDay []DailyCount `json:"tasks_by_day"`
}

type PriorityCompletionAvg struct {
	Priority                   string  `json:"priority"`
	AvgCompletionTimeMinutes   float64 `json:"avg_completion_time_minutes"`
	AvgCompletionTimeFormatted string  `json:"avg_completion_time_formatted"`
	TotalTasks                 int     `json:"total_tasks"`
}
