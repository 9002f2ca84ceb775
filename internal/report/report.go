package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/gracestowel/storekit/internal/catalog"
	"github.com/gracestowel/storekit/internal/images"
	"github.com/gracestowel/storekit/internal/organizer"
)

// Images prints the outcome of a generator run. With table set every item is
// listed; otherwise only failures are.
func Images(w io.Writer, s images.Summary, table bool) {
	if table {
		rows := make([][]string, 0, len(s.Results))
		for _, r := range s.Results {
			status, size := "ok", fmt.Sprintf("%.1fKB", float64(r.Bytes)/1024)
			if r.Err != nil {
				status, size = "error: "+r.Err.Error(), "-"
			}
			rows = append(rows, []string{r.Spec.Filename(), fmt.Sprintf("%dx%d", r.Spec.Width, r.Spec.Height), size, status})
		}
		fmt.Fprintln(w, renderTable([]column{left("File"), right("Dimensions"), right("Size"), left("Status")}, rows))
	} else {
		for _, r := range s.Results {
			if r.Err != nil {
				fmt.Fprintf(w, "✗ Failed to generate %s: %v\n", r.Spec.BaseName(), r.Err)
			}
		}
	}

	fmt.Fprintf(w, "\nCompleted: %d images generated, %d errors\n", s.Generated, s.Errors)
	fmt.Fprintf(w, "Output directory: %s\n", s.OutputDir)
}

// Catalog lists specs and the file each one produces.
func Catalog(w io.Writer, specs []catalog.ImageSpec, outputDir string) {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{
			s.Product,
			s.Variant,
			s.Color,
			strconv.Itoa(s.Index),
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			filepath.Join(outputDir, s.Filename()),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]column{left("Product"), left("Variant"), left("Color"), right("Index"), right("Size"), left("File")},
		rows,
	))
	fmt.Fprintf(w, "%d images\n", len(specs))
}

// Stories prints the outcome of an organizer run.
func Stories(w io.Writer, s organizer.Summary, table bool) {
	if table && len(s.Outcomes) > 0 {
		rows := make([][]string, 0, len(s.Outcomes))
		for _, o := range s.Outcomes {
			detail := ""
			if o.Err != nil {
				detail = o.Err.Error()
			}
			rows = append(rows, []string{o.Record.Filename, o.Record.Status, o.Folder + "/", string(o.Action), detail})
		}
		fmt.Fprintln(w, renderTable([]column{left("File"), left("Status"), left("Folder"), left("Action"), left("Detail")}, rows))
	} else {
		for _, o := range s.Outcomes {
			switch o.Action {
			case organizer.ActionMoved:
				fmt.Fprintf(w, "Moved to %s/: %s\n", o.Folder, o.Record.Filename)
			case organizer.ActionPlanned:
				fmt.Fprintf(w, "Would move to %s/: %s\n", o.Folder, o.Record.Filename)
			case organizer.ActionFailed:
				fmt.Fprintf(w, "Error moving %s: %v\n", o.Record.Filename, o.Err)
			}
		}
	}

	fmt.Fprintf(w, "\n--- Summary ---\n")
	if s.Planned > 0 {
		fmt.Fprintf(w, "Planned: %d files\n", s.Planned)
	}
	fmt.Fprintf(w, "Moved: %d files\n", s.Moved)
	fmt.Fprintf(w, "Not found: %d files\n", s.Missing)
	fmt.Fprintf(w, "Errors: %d files\n", s.Failed)
}
