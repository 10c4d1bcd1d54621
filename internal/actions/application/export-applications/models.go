// internal/actions/application/export-applications/models.go
package exportapplications

// Input filters the exported rows the same way search does. When Path is
// set the workbook is also written to that file.
type Input struct {
	Query  string `json:"q" query:"q"`
	Course string `json:"course" query:"course"`
	Status string `json:"status" query:"status"`
	Path   string `json:"-"`
}

type Output struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Rows        int    `json:"rows"`
	Data        []byte `json:"-"`
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
