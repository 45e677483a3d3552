package reports

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"shopledger-backend/internal/database"
)

// GET /api/reports/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := Dashboard(database.DB, time.Now())
		if err != nil {
			logrus.WithError(err).Error("dashboard report failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build dashboard report")
		}
		return c.JSON(report)
	}
}

// GET /api/reports/period-summary?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func PeriodSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			return err
		}

		summary, err := PeriodFinancialSummary(database.DB, start, end)
		if err != nil {
			logrus.WithError(err).Error("period summary failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build period summary")
		}
		return c.JSON(summary)
	}
}

// GET /api/reports/period-summary/export — same range, as an xlsx download.
func PeriodSummaryExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			return err
		}

		summary, err := PeriodFinancialSummary(database.DB, start, end)
		if err != nil {
			logrus.WithError(err).Error("period summary failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build period summary")
		}

		f, err := BuildPeriodSummaryWorkbook(summary)
		if err != nil {
			logrus.WithError(err).Error("period summary export failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write export file")
		}

		filename := fmt.Sprintf("financial-summary_%s_%s.xlsx", summary.Period.StartDate, summary.Period.EndDate)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date and end_date are required (YYYY-MM-DD)")
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date is invalid")
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date is invalid")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}
	return start, end, nil
}
