package dashboard

import (
	"fmt"

	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// Export streams the month's rankings and strategy distribution as a
// workbook, one sheet per table.
func Export(c *gin.Context) {
	var req OverviewReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	db := database.DB
	snap, _, selectedMonth, err := selectSnapshot(db, req)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if snap == nil || selectedMonth == "" {
		response.Fail(c, response.ErrNotFound.WithTips("no snapshot data to export"))
		return
	}

	rankings, err := ComputeRankings(db, snap.SnapshotID, selectedMonth)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	distribution, err := ComputeDistribution(db, snap.SnapshotID, selectedMonth)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		data any
	}{
		{"ProposalRanking", rankings.Proposals},
		{"ApprovalRanking", rankings.Approvals},
		{"ActiveRanking", rankings.Active},
		{"Distribution", distribution},
	}
	for _, sheet := range sheets {
		if err := tools.ExportToExcel(f, sheet.name, sheet.data); err != nil {
			log.Error("failed to build export sheet", "error", err, "sheet", sheet.name)
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
	}
	// Drop the default sheet so the workbook opens on real data.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	displayName := fmt.Sprintf("dashboard-%s-%s.xlsx", snap.SnapshotDate, selectedMonth)
	if err := tools.SendExcel(c, f, displayName); err != nil {
		log.Error("failed to stream export", "error", err)
	}
}
