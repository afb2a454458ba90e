package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Applications"

// ExportService renders the application ledger as an XLSX workbook for
// offline admin review.
type ExportService interface {
	ExportApplications(status string) ([]byte, string, error)
}

type exportService struct {
	applicationRepo repository.ChefApplicationRepository
}

func NewExportService(applicationRepo repository.ChefApplicationRepository) ExportService {
	return &exportService{applicationRepo: applicationRepo}
}

// ExportApplications returns the workbook bytes and a suggested file name.
// An empty status exports everything.
func (s *exportService) ExportApplications(status string) ([]byte, string, error) {
	apps, err := s.applicationRepo.FindAll(status)
	if err != nil {
		logger.Error("Failed to load applications for export", err, map[string]interface{}{
			"status": status,
		})
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Applicant", "Email", "Specialty Cuisine", "Years of Experience",
		"Certification", "Portfolio", "Status", "Admin Remarks", "Submitted At", "Reviewed At",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(exportSheetName, cell, h); err != nil {
			return nil, "", err
		}
	}

	for rowIdx, app := range apps {
		values := []interface{}{
			app.ID,
			applicantUsername(&app),
			applicantEmail(&app),
			app.SpecialtyCuisine,
			app.YearsOfExperience,
			app.CertificationName,
			app.PortfolioLink,
			app.Status,
			app.AdminRemarks,
			app.CreatedAt.Format(time.RFC3339),
			formatReviewedAt(app.ReviewedAt),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write export workbook", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("chef-applications-%s.xlsx", time.Now().Format("2006-01-02"))

	logger.Info("Exported chef applications", map[string]interface{}{
		"count":  len(apps),
		"status": status,
	})

	return buf.Bytes(), filename, nil
}

func applicantUsername(app *model.ChefApplication) string {
	if app.User != nil {
		return app.User.Username
	}
	return ""
}

func applicantEmail(app *model.ChefApplication) string {
	if app.User != nil {
		return app.User.Email
	}
	return ""
}

func formatReviewedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
