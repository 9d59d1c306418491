package snapshot

import (
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
)

// UploadSnapshot receives a workbook as multipart form data and runs the
// importer. The import result is always delivered as a Report in the response
// body; a failed import is a successful HTTP call with report.success=false.
func UploadSnapshot(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Error("missing upload file", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("failed to open upload", "error", err, "filename", fileHeader.Filename)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer file.Close()

	report := Import(database.DB, fileHeader.Filename, file)

	if report.Success {
		log.Info("snapshot imported",
			"filename", fileHeader.Filename,
			"projects", report.ProcessedProjects,
			"events", report.ProcessedEvents,
			"warnings", len(report.Warnings),
		)
	} else {
		log.Warn("snapshot import rejected",
			"filename", fileHeader.Filename,
			"message", report.Message,
			"errors", report.Errors,
		)
	}

	response.Success(c, report)
}

// ListSnapshots returns all snapshots, newest date first.
func ListSnapshots(c *gin.Context) {
	var snapshots []model.Snapshot
	if err := database.DB.Order("snapshot_date DESC").Find(&snapshots).Error; err != nil {
		log.Error("failed to list snapshots", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, snapshots)
}
