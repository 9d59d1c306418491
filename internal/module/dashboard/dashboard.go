package dashboard

import (
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OverviewReq carries the optional snapshot/month selection. Without them the
// newest snapshot and its earliest available month are used.
type OverviewReq struct {
	SnapshotID uint   `form:"snapshot_id"`
	Month      string `form:"month"`
}

// selectSnapshot resolves the request to a concrete snapshot and month.
// A month parameter that is not one of the snapshot's months falls back to
// the default selection.
func selectSnapshot(db *gorm.DB, req OverviewReq) (*model.Snapshot, []string, string, error) {
	var snapshots []model.Snapshot
	if err := db.Order("snapshot_date DESC").Find(&snapshots).Error; err != nil {
		return nil, nil, "", err
	}
	if len(snapshots) == 0 {
		return nil, nil, "", nil
	}

	selected := snapshots[0]
	if req.SnapshotID != 0 {
		for _, snap := range snapshots {
			if snap.SnapshotID == req.SnapshotID {
				selected = snap
				break
			}
		}
	}

	months, err := SnapshotMonths(db, selected.SnapshotID)
	if err != nil {
		return nil, nil, "", err
	}
	selectedMonth := ""
	if len(months) > 0 {
		selectedMonth = months[0]
		for _, month := range months {
			if month == req.Month {
				selectedMonth = month
				break
			}
		}
	}
	return &selected, months, selectedMonth, nil
}

// Overview assembles the entire dashboard payload: KPIs, rankings,
// distributions, heatmap and trend, all scoped to one snapshot (and one
// selected month where the metric is month-scoped).
func Overview(c *gin.Context) {
	var req OverviewReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("failed to bind overview query", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	db := database.DB
	snap, months, selectedMonth, err := selectSnapshot(db, req)
	if err != nil {
		log.Error("failed to resolve snapshot", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if snap == nil {
		response.Success(c, gin.H{"snapshots": []model.Snapshot{}, "message": "No snapshots available."})
		return
	}

	payload := gin.H{
		"snapshot":       snap,
		"months":         months,
		"selected_month": selectedMonth,
	}

	if selectedMonth != "" {
		kpis, err := ComputeKPIs(db, snap.SnapshotID, selectedMonth)
		if err != nil {
			log.Error("failed to compute kpis", "error", err, "snapshot_id", snap.SnapshotID, "month", selectedMonth)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
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
		statusDist, err := ComputeStatusDistribution(db, snap.SnapshotID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		activeByStrategy, err := ComputeActiveByStrategy(db, snap.SnapshotID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		heatmap, err := ComputeHeatmap(db, snap.SnapshotID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		trend, err := ComputeMonthlyTrend(db, snap.SnapshotID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}

		biasStrategy, biasRatio := strategyBias(activeByStrategy)

		payload["kpis"] = kpis
		payload["rankings"] = rankings
		payload["distribution"] = distribution
		payload["status_distribution"] = statusDist
		payload["active_by_strategy"] = activeByStrategy
		payload["heatmap"] = heatmap
		payload["trend"] = trend
		payload["bias_strategy"] = biasStrategy
		payload["bias_ratio"] = biasRatio
	}

	response.Success(c, payload)
}

// strategyBias flags any strategy holding at least half of all active
// projects. Returns the worst offender and its share in percent (1 decimal).
func strategyBias(activeByStrategy []StrategyCount) (string, float64) {
	total := 0
	for _, entry := range activeByStrategy {
		total += entry.Count
	}
	if total == 0 {
		return "", 0
	}

	biasStrategy := ""
	biasRatio := 0.0
	for _, entry := range activeByStrategy {
		ratio := float64(entry.Count) / float64(total)
		if ratio >= 0.5 && ratio > biasRatio {
			biasStrategy = entry.Strategy
			biasRatio = ratio
		}
	}
	if biasStrategy == "" {
		return "", 0
	}
	return biasStrategy, float64(int(biasRatio*1000+0.5)) / 10
}
