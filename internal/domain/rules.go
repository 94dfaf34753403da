package domain

import "time"

// BookingRules общие правила записи сервиса
type BookingRules struct {
	Location *time.Location
	// MinNoticeMinutes минимальное время между текущим моментом и началом слота
	MinNoticeMinutes int
	// AdvanceBookingDays горизонт записи в днях; 0 - без ограничений
	AdvanceBookingDays int
}

// DefaultBookingRules правила по умолчанию
func DefaultBookingRules() BookingRules {
	return BookingRules{
		Location:           time.UTC,
		MinNoticeMinutes:   60,
		AdvanceBookingDays: 90,
	}
}

// Loc возвращает часовой пояс правил (UTC, если не задан)
func (r BookingRules) Loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Day приводит дату к полуночи в часовом поясе правил (год, месяц и день сохраняются)
func (r BookingRules) Day(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.Loc())
}

// DayBounds границы суток [start, end) для даты
func (r BookingRules) DayBounds(date time.Time) (time.Time, time.Time) {
	start := r.Day(date)
	return start, start.AddDate(0, 0, 1)
}

// IsPast возвращает true, если дата раньше сегодняшнего дня
func (r BookingRules) IsPast(date, now time.Time) bool {
	return r.Day(date).Before(r.Day(now.In(r.Loc())))
}

// IsBeyondHorizon возвращает true, если дата дальше горизонта записи
func (r BookingRules) IsBeyondHorizon(date, now time.Time) bool {
	if r.AdvanceBookingDays <= 0 {
		return false
	}
	maxDay := r.Day(now.In(r.Loc())).AddDate(0, 0, r.AdvanceBookingDays)
	return r.Day(date).After(maxDay)
}

// NoticeCutoff самый ранний момент, на который еще можно записаться
func (r BookingRules) NoticeCutoff(now time.Time) time.Time {
	return now.Add(time.Duration(r.MinNoticeMinutes) * time.Minute)
}
