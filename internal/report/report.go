package report

import (
	"context"
	"html/template"
	"io"
	"os"
	"sort"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Row is the recent row count of one table.
type Row struct {
	Database string
	Table    string
	Count    int64
}

// Report is the rendered freshness page input.
type Report struct {
	Hours       int
	GeneratedAt time.Time
	Rows        []Row
}

// Build counts recent rows of every Moment table, largest first. A failed count skips that table.
func Build(ctx context.Context, src Source, hours int, now time.Time) (Report, error) {
	tables, err := src.MomentTables(ctx)
	if err != nil {
		return Report{}, err
	}

	rows := make([]Row, 0, len(tables))
	for _, t := range tables {
		count, err := src.CountSince(ctx, t, hours)
		if err != nil {
			logs.Errorf("count %s.%s, err: %+v", t.Database, t.Name, err)
			continue
		}
		rows = append(rows, Row{Database: t.Database, Table: t.Name, Count: count})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	return Report{Hours: hours, GeneratedAt: now, Rows: rows}, nil
}

var _page = template.Must(template.New("report").Parse(`<html>
<head>
    <title>ClickHouse Report - Rows in Last {{.Hours}} Hours</title>
    <link rel="stylesheet" type="text/css" href="https://cdn.datatables.net/1.13.6/css/jquery.dataTables.css">
    <script type="text/javascript" charset="utf8" src="https://code.jquery.com/jquery-3.7.0.min.js"></script>
    <script type="text/javascript" charset="utf8" src="https://cdn.datatables.net/1.13.6/js/jquery.dataTables.js"></script>
</head>
<body>
    <h1>ClickHouse Report - Rows in Last {{.Hours}} Hours</h1>
    <p>Generated at {{.GeneratedAt.UTC.Format "2006-01-02 15:04:05"}} UTC</p>
    <table>
        <thead>
            <tr><th>Database</th><th>Table</th><th>Rows in Last {{.Hours}} Hours</th></tr>
        </thead>
        <tbody>
{{- range .Rows}}
            <tr><td>{{.Database}}</td><td>{{.Table}}</td><td>{{.Count}}</td></tr>
{{- end}}
        </tbody>
    </table>
    <script>
        $(document).ready(function() {
            $('table').DataTable({
                "paging": true,
                "lengthMenu": [[-1, 100, 500], ["All", 100, 500]],
                "pageLength": -1,
                "searching": true,
                "ordering": true,
                "order": [[2, "desc"]],
                "info": true
            });
        });
    </script>
</body>
</html>
`))

func Render(w io.Writer, r Report) error {
	if err := _page.Execute(w, r); err != nil {
		return errors.Wrap(err, "render report")
	}

	return nil
}

// WriteFile renders r into path.
func WriteFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report file").With("path", path)
	}
	defer f.Close()

	if err := Render(f, r); err != nil {
		return err
	}

	return f.Close()
}
