package dashboard

import (
	"sort"

	"ax-dashboard/config"
	"ax-dashboard/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The metrics engine is a set of pure reads over one committed snapshot. All
// functions tolerate a snapshot with zero events, and they share the same
// scoping semantics: month keys are fixed-width YYYY-MM strings, so plain
// lexicographic order is chronological order; a missing champion or strategy
// reference maps to the configured unassigned sentinel.

type KPIs struct {
	TotalProjects             int64   `json:"total_projects"`
	TotalActiveProjects       int64   `json:"total_active_projects"`
	MonthProposals            int64   `json:"month_proposals"`
	MonthApprovals            int64   `json:"month_approvals"`
	CumulativeApproved        int64   `json:"cumulative_approved"`
	ChampionParticipationRate float64 `json:"champion_participation_rate"`
	ExpansionRate             float64 `json:"expansion_rate"`
	ProposalInflowRate        float64 `json:"proposal_inflow_rate"`
}

type RankingEntry struct {
	Champion string `json:"champion" excel:"Champion"`
	Count    int    `json:"count" excel:"Count"`
}

type Rankings struct {
	Proposals []RankingEntry `json:"proposals"`
	Approvals []RankingEntry `json:"approvals"`
	Active    []RankingEntry `json:"active"`
}

type DistributionEntry struct {
	Category  string `json:"category" excel:"전략분류"`
	Proposals int    `json:"proposals" excel:"Proposals"`
	Approvals int    `json:"approvals" excel:"Approvals"`
	Active    int    `json:"active" excel:"Active"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StrategyCount struct {
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
}

type HeatmapCell struct {
	Champion  string `json:"champion"`
	Month     string `json:"month"`
	Proposals int    `json:"proposals"`
	Approvals int    `json:"approvals"`
}

type TrendPoint struct {
	Month     string `json:"month"`
	Proposals int64  `json:"proposals"`
	Approvals int64  `json:"approvals"`
}

// SnapshotMonths returns the distinct sorted month keys present in the
// snapshot's events. The earliest month is the dashboard's default selection.
func SnapshotMonths(db *gorm.DB, snapshotID uint) ([]string, error) {
	var months []string
	err := db.Model(&model.ProjectMonthlyEvent{}).
		Where("snapshot_id = ?", snapshotID).
		Distinct().
		Pluck("month_key", &months).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(months)
	return months, nil
}

// ComputeKPIs computes the headline numbers for one snapshot and month.
// Every ratio is 0 when its denominator is 0, and rounded to 4 decimals.
func ComputeKPIs(db *gorm.DB, snapshotID uint, month string) (*KPIs, error) {
	kpis := &KPIs{}
	activeStatus := config.Get().Dashboard.ActiveStatus

	if err := db.Model(&model.Project{}).
		Where("snapshot_id = ?", snapshotID).
		Count(&kpis.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Project{}).
		Where("snapshot_id = ? AND current_status = ?", snapshotID, activeStatus).
		Count(&kpis.TotalActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.ProjectMonthlyEvent{}).
		Where("snapshot_id = ? AND month_key = ? AND is_new_proposal = ?", snapshotID, month, true).
		Count(&kpis.MonthProposals).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.ProjectMonthlyEvent{}).
		Where("snapshot_id = ? AND month_key = ? AND is_approved = ?", snapshotID, month, true).
		Count(&kpis.MonthApprovals).Error; err != nil {
		return nil, err
	}

	cumulative, err := cumulativeApproved(db, snapshotID, month)
	if err != nil {
		return nil, err
	}
	kpis.CumulativeApproved = cumulative

	// Participation: champions active this month over champions ever assigned
	// in the snapshot. NULL champion references never count on either side.
	var activeChampions int64
	if err := db.Model(&model.ProjectMonthlyEvent{}).
		Where("snapshot_id = ? AND month_key = ? AND champion_id IS NOT NULL", snapshotID, month).
		Where("is_new_proposal = ? OR is_approved = ?", true, true).
		Distinct("champion_id").
		Count(&activeChampions).Error; err != nil {
		return nil, err
	}
	var totalChampions int64
	if err := db.Model(&model.Project{}).
		Where("snapshot_id = ? AND champion_id IS NOT NULL", snapshotID).
		Distinct("champion_id").
		Count(&totalChampions).Error; err != nil {
		return nil, err
	}
	if totalChampions > 0 {
		kpis.ChampionParticipationRate = round4(float64(activeChampions) / float64(totalChampions))
	}

	// Expansion: this month's cumulative approvals over the previous available
	// month's. The snapshot's first month has no previous month, hence 0.
	months, err := SnapshotMonths(db, snapshotID)
	if err != nil {
		return nil, err
	}
	if prev, ok := previousMonth(months, month); ok {
		prevCumulative, err := cumulativeApproved(db, snapshotID, prev)
		if err != nil {
			return nil, err
		}
		if prevCumulative > 0 {
			kpis.ExpansionRate = round4(float64(cumulative) / float64(prevCumulative))
		}
	}

	if kpis.MonthApprovals > 0 {
		kpis.ProposalInflowRate = round4(float64(kpis.MonthProposals) / float64(kpis.MonthApprovals))
	}

	return kpis, nil
}

// cumulativeApproved counts distinct projects with at least one approval event
// in any month up to and including the given one.
func cumulativeApproved(db *gorm.DB, snapshotID uint, month string) (int64, error) {
	var count int64
	err := db.Model(&model.ProjectMonthlyEvent{}).
		Where("snapshot_id = ? AND is_approved = ? AND month_key <= ?", snapshotID, true, month).
		Distinct("project_id").
		Count(&count).Error
	return count, err
}

func previousMonth(months []string, month string) (string, bool) {
	prev := ""
	for _, m := range months {
		if m >= month {
			break
		}
		prev = m
	}
	return prev, prev != ""
}

type groupCount struct {
	GroupID *uint `gorm:"column:gid"`
	Cnt     int   `gorm:"column:cnt"`
}

// ComputeRankings returns three independently sorted per-champion lists:
// proposals and approvals are month-scoped, active reflects the snapshot's
// current project statuses regardless of month.
func ComputeRankings(db *gorm.DB, snapshotID uint, month string) (*Rankings, error) {
	champions, err := championLabels(db)
	if err != nil {
		return nil, err
	}

	proposals, err := eventRanking(db, champions, snapshotID, month, "is_new_proposal")
	if err != nil {
		return nil, err
	}
	approvals, err := eventRanking(db, champions, snapshotID, month, "is_approved")
	if err != nil {
		return nil, err
	}

	var activeRows []groupCount
	if err := db.Model(&model.Project{}).
		Select("champion_id AS gid, COUNT(*) AS cnt").
		Where("snapshot_id = ? AND current_status = ?", snapshotID, config.Get().Dashboard.ActiveStatus).
		Group("champion_id").
		Scan(&activeRows).Error; err != nil {
		return nil, err
	}
	active := toRanking(activeRows, champions)

	return &Rankings{Proposals: proposals, Approvals: approvals, Active: active}, nil
}

func eventRanking(db *gorm.DB, champions map[uint]string, snapshotID uint, month, flagColumn string) ([]RankingEntry, error) {
	var rows []groupCount
	err := db.Model(&model.ProjectMonthlyEvent{}).
		Select("champion_id AS gid, COUNT(*) AS cnt").
		Where("snapshot_id = ? AND month_key = ? AND "+flagColumn+" = ?", snapshotID, month, true).
		Group("champion_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRanking(rows, champions), nil
}

func toRanking(rows []groupCount, labels map[uint]string) []RankingEntry {
	entries := make([]RankingEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, RankingEntry{
			Champion: labelFor(labels, row.GroupID),
			Count:    row.Cnt,
		})
	}
	sortRanking(entries)
	return entries
}

// sortRanking orders by descending count, then ascending name. SliceStable
// keeps equal (name, count) pairs deterministic.
func sortRanking(entries []RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Champion < entries[j].Champion
	})
}

// ComputeDistribution returns one row per strategy category, including zero
// rows for categories with no matching projects so chart axes stay stable.
func ComputeDistribution(db *gorm.DB, snapshotID uint, month string) ([]DistributionEntry, error) {
	strategies, err := strategyLabels(db)
	if err != nil {
		return nil, err
	}

	// Every known category starts at zero, sentinel included.
	byLabel := map[string]*DistributionEntry{}
	sentinel := config.Get().Dashboard.UnassignedLabel
	byLabel[sentinel] = &DistributionEntry{Category: sentinel}
	for _, name := range strategies {
		byLabel[name] = &DistributionEntry{Category: name}
	}

	proposalRows, err := strategyEventCounts(db, snapshotID, month, "is_new_proposal")
	if err != nil {
		return nil, err
	}
	for _, row := range proposalRows {
		byLabel[labelFor(strategies, row.GroupID)].Proposals = row.Cnt
	}

	approvalRows, err := strategyEventCounts(db, snapshotID, month, "is_approved")
	if err != nil {
		return nil, err
	}
	for _, row := range approvalRows {
		byLabel[labelFor(strategies, row.GroupID)].Approvals = row.Cnt
	}

	var activeRows []groupCount
	if err := db.Model(&model.Project{}).
		Select("strategy_id AS gid, COUNT(*) AS cnt").
		Where("snapshot_id = ? AND current_status = ?", snapshotID, config.Get().Dashboard.ActiveStatus).
		Group("strategy_id").
		Scan(&activeRows).Error; err != nil {
		return nil, err
	}
	for _, row := range activeRows {
		byLabel[labelFor(strategies, row.GroupID)].Active = row.Cnt
	}

	entries := make([]DistributionEntry, 0, len(byLabel))
	for _, entry := range byLabel {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Category < entries[j].Category
	})
	return entries, nil
}

// strategyEventCounts joins month events back to their projects to attribute
// them to the project's strategy category.
func strategyEventCounts(db *gorm.DB, snapshotID uint, month, flagColumn string) ([]groupCount, error) {
	var rows []groupCount
	err := db.Table("project_monthly_events AS e").
		Select("p.strategy_id AS gid, COUNT(*) AS cnt").
		Joins("JOIN projects AS p ON e.snapshot_id = p.snapshot_id AND e.project_id = p.project_id").
		Where("e.snapshot_id = ? AND e.month_key = ? AND e."+flagColumn+" = ?", snapshotID, month, true).
		Group("p.strategy_id").
		Scan(&rows).Error
	return rows, err
}

// ComputeStatusDistribution counts projects per literal current_status value,
// snapshot-wide. Sorted by descending count.
func ComputeStatusDistribution(db *gorm.DB, snapshotID uint) ([]StatusCount, error) {
	type statusRow struct {
		CurrentStatus string `gorm:"column:current_status"`
		Cnt           int    `gorm:"column:cnt"`
	}
	var rows []statusRow
	err := db.Model(&model.Project{}).
		Select("current_status, COUNT(*) AS cnt").
		Where("snapshot_id = ?", snapshotID).
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]StatusCount, 0, len(rows))
	for _, row := range rows {
		status := row.CurrentStatus
		if status == "" {
			status = config.Get().Dashboard.BlankStatus
		}
		entries = append(entries, StatusCount{Status: status, Count: row.Cnt})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries, nil
}

// ComputeActiveByStrategy counts currently active projects per strategy,
// snapshot-wide, with zero entries for every known strategy. Sorted by
// descending count, then name.
func ComputeActiveByStrategy(db *gorm.DB, snapshotID uint) ([]StrategyCount, error) {
	strategies, err := strategyLabels(db)
	if err != nil {
		return nil, err
	}

	sentinel := config.Get().Dashboard.UnassignedLabel
	counts := map[string]int{sentinel: 0}
	for _, name := range strategies {
		counts[name] = 0
	}

	var rows []groupCount
	if err := db.Model(&model.Project{}).
		Select("strategy_id AS gid, COUNT(*) AS cnt").
		Where("snapshot_id = ? AND current_status = ?", snapshotID, config.Get().Dashboard.ActiveStatus).
		Group("strategy_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[labelFor(strategies, row.GroupID)] = row.Cnt
	}

	entries := make([]StrategyCount, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, StrategyCount{Strategy: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Strategy < entries[j].Strategy
	})
	return entries, nil
}

// ComputeHeatmap returns a (proposal, approval) pair for every champion —
// unassigned sentinel included — crossed with every month in the snapshot.
// Cells default to zero.
func ComputeHeatmap(db *gorm.DB, snapshotID uint) ([]HeatmapCell, error) {
	champions, err := championLabels(db)
	if err != nil {
		return nil, err
	}
	months, err := SnapshotMonths(db, snapshotID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(champions)+1)
	for _, name := range champions {
		names = append(names, name)
	}
	names = append(names, config.Get().Dashboard.UnassignedLabel)
	sort.Strings(names)

	type cellKey struct {
		champion string
		month    string
	}
	cells := map[cellKey]*HeatmapCell{}
	ordered := make([]*HeatmapCell, 0, len(names)*len(months))
	for _, name := range names {
		for _, month := range months {
			cell := &HeatmapCell{Champion: name, Month: month}
			cells[cellKey{name, month}] = cell
			ordered = append(ordered, cell)
		}
	}

	type monthRow struct {
		GroupID  *uint  `gorm:"column:gid"`
		MonthKey string `gorm:"column:month_key"`
		Cnt      int    `gorm:"column:cnt"`
	}
	fill := func(flagColumn string, assign func(cell *HeatmapCell, cnt int)) error {
		var rows []monthRow
		err := db.Model(&model.ProjectMonthlyEvent{}).
			Select("champion_id AS gid, month_key, COUNT(*) AS cnt").
			Where("snapshot_id = ? AND "+flagColumn+" = ?", snapshotID, true).
			Group("champion_id, month_key").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			if cell, ok := cells[cellKey{labelFor(champions, row.GroupID), row.MonthKey}]; ok {
				assign(cell, row.Cnt)
			}
		}
		return nil
	}

	if err := fill("is_new_proposal", func(cell *HeatmapCell, cnt int) { cell.Proposals = cnt }); err != nil {
		return nil, err
	}
	if err := fill("is_approved", func(cell *HeatmapCell, cnt int) { cell.Approvals = cnt }); err != nil {
		return nil, err
	}

	result := make([]HeatmapCell, 0, len(ordered))
	for _, cell := range ordered {
		result = append(result, *cell)
	}
	return result, nil
}

// ComputeMonthlyTrend totals proposals and approvals per month, in month
// order, across all champions.
func ComputeMonthlyTrend(db *gorm.DB, snapshotID uint) ([]TrendPoint, error) {
	months, err := SnapshotMonths(db, snapshotID)
	if err != nil {
		return nil, err
	}

	trend := make([]TrendPoint, 0, len(months))
	for _, month := range months {
		point := TrendPoint{Month: month}
		if err := db.Model(&model.ProjectMonthlyEvent{}).
			Where("snapshot_id = ? AND month_key = ? AND is_new_proposal = ?", snapshotID, month, true).
			Count(&point.Proposals).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&model.ProjectMonthlyEvent{}).
			Where("snapshot_id = ? AND month_key = ? AND is_approved = ?", snapshotID, month, true).
			Count(&point.Approvals).Error; err != nil {
			return nil, err
		}
		trend = append(trend, point)
	}
	return trend, nil
}

func championLabels(db *gorm.DB) (map[uint]string, error) {
	var champions []model.Champion
	if err := db.Find(&champions).Error; err != nil {
		return nil, err
	}
	labels := make(map[uint]string, len(champions))
	for _, champion := range champions {
		labels[champion.ChampionID] = champion.Name
	}
	return labels, nil
}

func strategyLabels(db *gorm.DB) (map[uint]string, error) {
	var strategies []model.StrategyCategory
	if err := db.Find(&strategies).Error; err != nil {
		return nil, err
	}
	labels := make(map[uint]string, len(strategies))
	for _, strategy := range strategies {
		labels[strategy.StrategyID] = strategy.Name
	}
	return labels, nil
}

func labelFor(labels map[uint]string, id *uint) string {
	if id == nil {
		return config.Get().Dashboard.UnassignedLabel
	}
	if name, ok := labels[*id]; ok {
		return name
	}
	return config.Get().Dashboard.UnassignedLabel
}

func round4(x float64) float64 {
	return decimal.NewFromFloat(x).Round(4).InexactFloat64()
}
