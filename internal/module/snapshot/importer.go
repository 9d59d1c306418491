package snapshot

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"ax-dashboard/config"
	"ax-dashboard/internal/model"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const masterSheet = "AX_Master"

var (
	filenamePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\.xlsx$`)
	monthSheetPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// Fatal error kinds surfaced in Report.Errors. The importer never returns a Go
// error across the module boundary; every failure mode becomes a tagged entry.
const (
	ErrInvalidFilename         = "InvalidFilename"
	ErrWorkbookLoad            = "WorkbookLoadError"
	ErrMissingMasterSheet      = "MissingMasterSheet"
	ErrMissingColumns          = "MissingColumns"
	ErrDuplicateSnapshot       = "DuplicateSnapshot"
	ErrMissingEventColumns     = "MissingEventColumns"
	ErrUnknownProjectReference = "UnknownProjectReference"
	ErrUnhandledImportError    = "UnhandledImportError"
)

type columnSpec struct {
	Label string // header text in the workbook
	Field string // internal field name
}

var masterColumns = []columnSpec{
	{"과제ID", "project_id"},
	{"과제명", "project_name"},
	{"Champion", "champion"},
	{"전략분류", "strategy"},
	{"수행 부서", "org_unit"},
	{"심의상태", "status"},
	{"제안월", "proposed_month"},
	{"승인월", "approved_month"},
}

var eventColumns = []columnSpec{
	{"과제ID", "project_id"},
	{"Champion", "champion"},
	{"신규제안여부", "is_new_proposal"},
	{"승인여부", "is_approved"},
	{"비고", "note"},
}

// Report is the importer's only output. When Success is false the processed
// counts describe work that was rolled back; they are kept for diagnostics.
type Report struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	ProcessedProjects int      `json:"processed_projects"`
	ProcessedEvents   int      `json:"processed_events"`
	Warnings          []string `json:"warnings"`
	Errors            []string `json:"errors"`
}

func (r *Report) fail(kind, message string) *Report {
	r.Success = false
	r.Message = message
	r.Errors = append(r.Errors, kind)
	return r
}

func (r *Report) failf(kind, format string, args ...any) *Report {
	return r.fail(kind, fmt.Sprintf(format, args...))
}

// Import parses one workbook and commits a fully consistent snapshot, or
// commits nothing. All writes happen in a single transaction; any fatal
// condition after the transaction begins rolls everything back, so no partial
// snapshot is ever visible to readers.
func Import(db *gorm.DB, filename string, content io.Reader) *Report {
	report := &Report{Warnings: []string{}, Errors: []string{}}

	match := filenamePattern.FindStringSubmatch(filename)
	if match == nil {
		return report.fail(ErrInvalidFilename, "Invalid filename format. Must be YYYY-MM-DD.xlsx")
	}
	snapshotDate := fmt.Sprintf("%s-%s-%s", match[1], match[2], match[3])

	f, err := excelize.OpenReader(content)
	if err != nil {
		return report.failf(ErrWorkbookLoad, "Failed to load workbook: %v", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(masterSheet); err != nil || idx < 0 {
		return report.fail(ErrMissingMasterSheet, "AX_Master sheet is missing.")
	}

	masterRows, err := f.GetRows(masterSheet)
	if err != nil {
		return report.failf(ErrWorkbookLoad, "Failed to read sheet %s: %v", masterSheet, err)
	}
	masterIndex, missing := indexHeader(headerRow(masterRows), masterColumns)
	if len(missing) > 0 {
		return report.failf(ErrMissingColumns,
			"Missing required columns in AX_Master: %s", strings.Join(missing, ", "))
	}

	tx := db.Begin()
	if tx.Error != nil {
		return report.failf(ErrUnhandledImportError, "Error during import: %v", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	var existing int64
	if err := tx.Model(&model.Snapshot{}).
		Where("snapshot_date = ?", snapshotDate).
		Count(&existing).Error; err != nil {
		return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
	}
	if existing > 0 {
		return report.fail(ErrDuplicateSnapshot, "Snapshot for this date already exists.")
	}

	snap := model.Snapshot{
		SnapshotDate:   snapshotDate,
		SourceFilename: filename,
	}
	if err := tx.Create(&snap).Error; err != nil {
		return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
	}

	// project_id -> champion of the master row, for the event fallback.
	projectChampions := map[string]*uint{}

	for _, row := range dataRows(masterRows) {
		if rowIsEmpty(row) {
			continue
		}
		projectID := strings.TrimSpace(cellAt(row, masterIndex["project_id"]))
		if projectID == "" {
			report.Warnings = append(report.Warnings, "Blank project_id in AX_Master; row skipped")
			continue
		}

		championID, err := getOrCreateChampion(tx, cellAt(row, masterIndex["champion"]))
		if err != nil {
			return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
		}
		strategyID, err := getOrCreateStrategy(tx, cellAt(row, masterIndex["strategy"]))
		if err != nil {
			return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
		}

		status := cellAt(row, masterIndex["status"])
		if strings.TrimSpace(status) == "" {
			status = config.Get().Dashboard.DefaultStatus
		}

		project := model.Project{
			SnapshotID:    snap.SnapshotID,
			ProjectID:     projectID,
			ProjectName:   cellAt(row, masterIndex["project_name"]),
			ChampionID:    championID,
			StrategyID:    strategyID,
			OrgUnit:       optional(cellAt(row, masterIndex["org_unit"])),
			CurrentStatus: status,
			ProposedMonth: optional(cellAt(row, masterIndex["proposed_month"])),
			ApprovedMonth: optional(cellAt(row, masterIndex["approved_month"])),
		}
		if err := tx.Create(&project).Error; err != nil {
			return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
		}
		projectChampions[projectID] = championID
		report.ProcessedProjects++
	}

	for _, sheet := range f.GetSheetList() {
		if sheet == masterSheet {
			continue
		}
		if !monthSheetPattern.MatchString(sheet) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Sheet %s ignored due to invalid name", sheet))
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return report.failf(ErrWorkbookLoad, "Failed to read sheet %s: %v", sheet, err)
		}
		eventIndex, missingEvt := indexHeader(headerRow(rows), eventColumns)
		if len(missingEvt) > 0 {
			return report.failf(ErrMissingEventColumns,
				"Missing required columns in sheet %s: %s", sheet, strings.Join(missingEvt, ", "))
		}

		for _, row := range dataRows(rows) {
			if rowIsEmpty(row) {
				continue
			}
			projectID := strings.TrimSpace(cellAt(row, eventIndex["project_id"]))
			if projectID == "" {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("Blank project_id in %s; row skipped", sheet))
				continue
			}
			championID, ok := projectChampions[projectID]
			if !ok {
				report.Success = false
				report.Message = fmt.Sprintf("Project ID %s in sheet %s not found in AX_Master.", projectID, sheet)
				report.Errors = append(report.Errors,
					fmt.Sprintf("%s: %s", ErrUnknownProjectReference, projectID))
				return report
			}

			if name := strings.TrimSpace(cellAt(row, eventIndex["champion"])); name != "" {
				championID, err = getOrCreateChampion(tx, name)
				if err != nil {
					return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
				}
			}

			event := model.ProjectMonthlyEvent{
				SnapshotID:    snap.SnapshotID,
				MonthKey:      sheet,
				ProjectID:     projectID,
				ChampionID:    championID,
				IsNewProposal: truthyCell(cellAt(row, eventIndex["is_new_proposal"])),
				IsApproved:    truthyCell(cellAt(row, eventIndex["is_approved"])),
				Note:          optional(cellAt(row, eventIndex["note"])),
			}
			if err := tx.Create(&event).Error; err != nil {
				return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
			}
			report.ProcessedEvents++
		}
	}

	if err := tx.Commit().Error; err != nil {
		return report.failf(ErrUnhandledImportError, "Error during import: %v", err)
	}
	committed = true

	report.Success = true
	report.Message = "Snapshot imported successfully."
	return report
}

// indexHeader maps internal field names to column positions and reports which
// required labels are absent, in declaration order.
func indexHeader(header []string, specs []columnSpec) (map[string]int, []string) {
	index := map[string]int{}
	for idx, label := range header {
		for _, spec := range specs {
			if strings.TrimSpace(label) == spec.Label {
				index[spec.Field] = idx
			}
		}
	}
	var missing []string
	for _, spec := range specs {
		if _, ok := index[spec.Field]; !ok {
			missing = append(missing, spec.Label)
		}
	}
	return index, missing
}

func headerRow(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func dataRows(rows [][]string) [][]string {
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

// cellAt tolerates short rows: excelize trims trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// truthyCell: empty or literal "0" is false, any other content is true.
func truthyCell(s string) bool {
	t := strings.TrimSpace(s)
	return t != "" && t != "0"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getOrCreateChampion(tx *gorm.DB, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var champion model.Champion
	err := tx.Where("name = ?", name).First(&champion).Error
	if err == nil {
		return &champion.ChampionID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	champion = model.Champion{Name: name, IsActive: true}
	if err := tx.Create(&champion).Error; err != nil {
		return nil, err
	}
	return &champion.ChampionID, nil
}

func getOrCreateStrategy(tx *gorm.DB, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var strategy model.StrategyCategory
	err := tx.Where("name = ?", name).First(&strategy).Error
	if err == nil {
		return &strategy.StrategyID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	strategy = model.StrategyCategory{Name: name, IsActive: true}
	if err := tx.Create(&strategy).Error; err != nil {
		return nil, err
	}
	return &strategy.StrategyID, nil
}
