package get_practitioner_appointments

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date - один день; from и to - период в днях, обе границы включительно
func ToServiceRequest(
	ownerID int64,
	userID int64,
	dateStr string,
	fromStr string,
	toStr string,
	statusStr string,
	activeOnlyStr string,
	loc *time.Location,
) (*models.GetOwnerAppointmentsRequest, error) {
	req := &models.GetOwnerAppointmentsRequest{
		ActorID: userID,
		OwnerID: ownerID,
	}

	if dateStr != "" && (fromStr != "" || toStr != "") {
		return nil, errors.New("date cannot be combined with from/to")
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
		if err != nil {
			return nil, err
		}
		next := date.AddDate(0, 0, 1)
		req.From = &date
		req.To = &next
	}

	if fromStr != "" {
		from, err := time.ParseInLocation(domain.DateFormat, fromStr, loc)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.ParseInLocation(domain.DateFormat, toStr, loc)
		if err != nil {
			return nil, err
		}
		next := to.AddDate(0, 0, 1)
		req.To = &next
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if activeOnlyStr != "" {
		activeOnly, err := strconv.ParseBool(activeOnlyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid activeOnly value: %w", err)
		}
		req.ActiveOnly = activeOnly
	}

	return req, nil
}
