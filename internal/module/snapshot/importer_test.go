package snapshot

import (
	"bytes"
	"testing"

	"ax-dashboard/internal/model"
	"ax-dashboard/internal/module/dashboard"
	"ax-dashboard/test"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var masterHeader = []any{"과제ID", "과제명", "Champion", "전략분류", "수행 부서", "심의상태", "제안월", "승인월"}
var eventHeader = []any{"과제ID", "Champion", "신규제안여부", "승인여부", "비고"}

type sheetDef struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets []sheetDef) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet.name, cell, &row))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func masterOnly(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	return buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: append([][]any{masterHeader}, rows...)},
	})
}

func TestImportInvalidFilename(t *testing.T) {
	db := test.SetupDB(t)

	for _, filename := range []string{
		"snapshot.xlsx", "2025-1-01.xlsx", "2025-01-01.csv", "2025-01-01", "2025-01-01.xlsx.bak",
	} {
		report := Import(db, filename, bytes.NewReader(nil))
		require.False(t, report.Success, filename)
		require.Contains(t, report.Errors, ErrInvalidFilename, filename)
	}
}

func TestImportMissingMasterSheet(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "SomethingElse", rows: [][]any{{"x"}}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.False(t, report.Success)
	require.Contains(t, report.Errors, ErrMissingMasterSheet)
}

func TestImportMissingColumns(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{{"과제ID", "과제명", "Champion"}}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.False(t, report.Success)
	require.Contains(t, report.Errors, ErrMissingColumns)
	require.Contains(t, report.Message, "전략분류")
	require.Contains(t, report.Message, "승인월")
}

func TestImportDuplicateSnapshotRejected(t *testing.T) {
	db := test.SetupDB(t)

	content := masterOnly(t, []any{"P1", "Project One", "Alice", "AI", "ax그룹", "제안", "", ""})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)

	second := masterOnly(t, []any{"P9", "Other", "Bob", "Cloud", "", "완료", "", ""})
	report = Import(db, "2025-01-01.xlsx", bytes.NewReader(second))
	require.False(t, report.Success)
	require.Contains(t, report.Errors, ErrDuplicateSnapshot)

	// The store is unchanged by the rejected import.
	var snapshots, projects int64
	require.NoError(t, db.Model(&model.Snapshot{}).Count(&snapshots).Error)
	require.NoError(t, db.Model(&model.Project{}).Count(&projects).Error)
	require.EqualValues(t, 1, snapshots)
	require.EqualValues(t, 1, projects)
}

func TestImportChampionDedupByTrimmedName(t *testing.T) {
	db := test.SetupDB(t)

	content := masterOnly(t,
		[]any{"P1", "One", "Alice", "", "", "제안", "", ""},
		[]any{"P2", "Two", " Alice ", "", "", "제안", "", ""},
	)
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)
	require.Equal(t, 2, report.ProcessedProjects)

	var champions []model.Champion
	require.NoError(t, db.Find(&champions).Error)
	require.Len(t, champions, 1)
	require.Equal(t, "Alice", champions[0].Name)

	// Both project rows resolve to the same champion.
	var projects []model.Project
	require.NoError(t, db.Order("project_id").Find(&projects).Error)
	require.Len(t, projects, 2)
	require.NotNil(t, projects[0].ChampionID)
	require.NotNil(t, projects[1].ChampionID)
	require.Equal(t, *projects[0].ChampionID, *projects[1].ChampionID)
}

func TestImportBooleanCoercion(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "", "", "제안", "", ""},
			{"P2", "Two", "Alice", "", "", "제안", "", ""},
			{"P3", "Three", "Alice", "", "", "제안", "", ""},
			{"P4", "Four", "Alice", "", "", "제안", "", ""},
		}},
		{name: "2025-01", rows: [][]any{
			eventHeader,
			{"P1", "", "0", "1", ""},
			{"P2", "", "", "Y", ""},
			{"P3", "", "1", "0", ""},
			{"P4", "", "approved!", " 0 ", ""},
		}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)
	require.Equal(t, 4, report.ProcessedEvents)

	var events []model.ProjectMonthlyEvent
	require.NoError(t, db.Order("project_id").Find(&events).Error)
	require.Len(t, events, 4)

	// "0" and blank are false; any other non-empty text is true.
	require.False(t, events[0].IsNewProposal)
	require.True(t, events[0].IsApproved)
	require.False(t, events[1].IsNewProposal)
	require.True(t, events[1].IsApproved)
	require.True(t, events[2].IsNewProposal)
	require.False(t, events[2].IsApproved)
	require.True(t, events[3].IsNewProposal)
	require.False(t, events[3].IsApproved)
}

func TestImportWarningsAreNotFatal(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "", "", "제안", "", ""},
			{"", "row without id", "Bob", "", "", "", "", ""},
			{"", "", "", "", "", "", "", ""},
		}},
		{name: "비고시트", rows: [][]any{{"whatever"}}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)
	require.Equal(t, 1, report.ProcessedProjects)
	require.Len(t, report.Warnings, 2)
	require.Contains(t, report.Warnings[0], "Blank project_id")
	require.Contains(t, report.Warnings[1], "비고시트")
}

func TestImportUnknownProjectRollback(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "", "", "제안", "", ""},
		}},
		{name: "2025-01", rows: [][]any{
			eventHeader,
			{"P2", "", "1", "0", ""},
		}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.False(t, report.Success)
	require.Contains(t, report.Errors, ErrUnknownProjectReference+": P2")
	require.Contains(t, report.Message, "P2")
	require.Contains(t, report.Message, "2025-01")

	// The whole import rolled back: no snapshot, project or event row remains.
	var snapshots, projects, events int64
	require.NoError(t, db.Model(&model.Snapshot{}).Count(&snapshots).Error)
	require.NoError(t, db.Model(&model.Project{}).Count(&projects).Error)
	require.NoError(t, db.Model(&model.ProjectMonthlyEvent{}).Count(&events).Error)
	require.Zero(t, snapshots)
	require.Zero(t, projects)
	require.Zero(t, events)
}

func TestImportMissingEventColumnsRollback(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "", "", "제안", "", ""},
		}},
		{name: "2025-01", rows: [][]any{
			{"과제ID", "Champion", "신규제안여부"}, // 승인여부 and 비고 missing
			{"P1", "", "1"},
		}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.False(t, report.Success)
	require.Contains(t, report.Errors, ErrMissingEventColumns)
	require.Contains(t, report.Message, "2025-01")

	// Master rows written before the bad sheet are rolled back too.
	var snapshots, projects int64
	require.NoError(t, db.Model(&model.Snapshot{}).Count(&snapshots).Error)
	require.NoError(t, db.Model(&model.Project{}).Count(&projects).Error)
	require.Zero(t, snapshots)
	require.Zero(t, projects)
}

func TestImportEventChampionFallback(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "", "", "제안", "", ""},
			{"P2", "Two", "Alice", "", "", "제안", "", ""},
		}},
		{name: "2025-01", rows: [][]any{
			eventHeader,
			{"P1", "Bob", "1", "0", ""},
			{"P2", "", "1", "0", ""},
		}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)

	var alice, bob model.Champion
	require.NoError(t, db.First(&alice, "name = ?", "Alice").Error)
	require.NoError(t, db.First(&bob, "name = ?", "Bob").Error)

	var events []model.ProjectMonthlyEvent
	require.NoError(t, db.Order("project_id").Find(&events).Error)
	require.Len(t, events, 2)
	// Explicit champion wins; blank cell falls back to the project's champion.
	require.Equal(t, bob.ChampionID, *events[0].ChampionID)
	require.Equal(t, alice.ChampionID, *events[1].ChampionID)
}

func TestImportEndToEnd(t *testing.T) {
	db := test.SetupDB(t)

	content := buildWorkbook(t, []sheetDef{
		{name: "AX_Master", rows: [][]any{
			masterHeader,
			{"P1", "One", "Alice", "AI", "ax그룹", "", "2025-01", ""},
		}},
		{name: "2025-01", rows: [][]any{
			eventHeader,
			{"P1", "", "1", "0", "kickoff"},
		}},
	})
	report := Import(db, "2025-01-01.xlsx", bytes.NewReader(content))
	require.True(t, report.Success)
	require.Equal(t, 1, report.ProcessedProjects)
	require.Equal(t, 1, report.ProcessedEvents)
	require.Empty(t, report.Warnings)
	require.Empty(t, report.Errors)

	var snap model.Snapshot
	require.NoError(t, db.First(&snap, "snapshot_date = ?", "2025-01-01").Error)

	months, err := dashboard.SnapshotMonths(db, snap.SnapshotID)
	require.NoError(t, err)
	require.Equal(t, []string{"2025-01"}, months)

	kpis, err := dashboard.ComputeKPIs(db, snap.SnapshotID, "2025-01")
	require.NoError(t, err)
	require.EqualValues(t, 1, kpis.MonthProposals)
	require.EqualValues(t, 0, kpis.MonthApprovals)
	require.EqualValues(t, 0, kpis.CumulativeApproved)

	// Blank status defaults to the configured proposal status.
	var project model.Project
	require.NoError(t, db.First(&project, "snapshot_id = ? AND project_id = ?", snap.SnapshotID, "P1").Error)
	require.Equal(t, "제안", project.CurrentStatus)
}

func TestUploadSnapshotHandler(t *testing.T) {
	test.SetupDB(t)
	selfInit()

	content := masterOnly(t, []any{"P1", "One", "Alice", "", "", "제안", "", ""})
	resp := test.DoUpload(t, UploadSnapshot, "2025-03-01.xlsx", content)
	test.NoError(t, resp)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, data["success"])
	require.EqualValues(t, 1, data["processed_projects"])
}
