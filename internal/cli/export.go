package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/export"
	"github.com/huepham/openhouse/internal/visitor"
)

func newExportCmd() *cobra.Command {
	var (
		outDir string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "export <csv|xlsx|pdf>",
		Short: "Export sign-ins",
		Long: `Export recorded sign-ins.

csv and xlsx write the full sign-in sheet. pdf writes a one-page summary for
a single record, selected with --id (record id or prefix); the most recent
sign-in is used when --id is omitted.

Examples:
  oh export csv
  oh export xlsx -o ~/Desktop
  oh export pdf --id a1b2c3d4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(strings.ToLower(args[0]), outDir, id)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: system temp dir)")
	cmd.Flags().StringVar(&id, "id", "", "record id or prefix, for pdf export")

	return cmd
}

func runExport(kind, outDir, id string) error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if outDir == "" {
		outDir = os.TempDir()
	}

	list := st.Visitors()

	var (
		data []byte
		name string
	)
	switch kind {
	case "csv":
		data = export.CSV(list)
		name = export.CSVFilename
	case "xlsx":
		data, err = export.XLSX(list)
		if err != nil {
			return err
		}
		name = export.XLSXFilename
	case "pdf":
		rec, err := selectRecord(list, id)
		if err != nil {
			return err
		}
		data, err = export.SummaryPDF(rec, st.Settings())
		if err != nil {
			return err
		}
		name = export.PDFFilename(rec)
	default:
		return fmt.Errorf("unknown export format %q (use csv, xlsx, or pdf)", kind)
	}

	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Exported %s\n", path)
	return nil
}

// selectRecord picks the record matching the id prefix, or the most recent
// sign-in when id is empty.
func selectRecord(list []visitor.Record, id string) (visitor.Record, error) {
	if len(list) == 0 {
		return visitor.Record{}, fmt.Errorf("no sign-ins recorded yet")
	}
	if id == "" {
		return list[len(list)-1], nil
	}

	for _, r := range list {
		if strings.HasPrefix(r.ID, id) {
			return r, nil
		}
	}
	return visitor.Record{}, fmt.Errorf("no sign-in with id %q", id)
}
