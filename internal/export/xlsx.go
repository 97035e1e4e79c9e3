package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/huepham/openhouse/internal/visitor"
)

// XLSXFilename is the fixed filename for the spreadsheet export.
const XLSXFilename = "OpenHouseSignIns.xlsx"

// xlsxSheet is the single worksheet name.
const xlsxSheet = "Sign-Ins"

// XLSX renders the sign-in list as a single-sheet workbook with the same
// columns as the CSV export.
func XLSX(list []visitor.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, r := range list {
		row := []interface{}{
			r.FullName,
			r.Email,
			r.Phone,
			yesNo(r.HasAgent),
			r.AgentName,
			r.AgentEmail,
			r.AgentPhone,
			yesNo(r.AgreedToDisclosure),
			formatSignedAt(r.SignedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locating row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering workbook: %w", err)
	}
	return buf.Bytes(), nil
}
