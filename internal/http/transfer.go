package http

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/transfer"
)

// TransferController handles catalog import and export.
type TransferController struct {
	exporter *transfer.Exporter
	importer *transfer.Importer
}

// NewTransferController creates a new TransferController.
func NewTransferController(exporter *transfer.Exporter, importer *transfer.Importer) *TransferController {
	return &TransferController{
		exporter: exporter,
		importer: importer,
	}
}

// ExportJSON streams the catalog as a JSON download.
// GET /api/export/json
func (tc *TransferController) ExportJSON(c *gin.Context) {
	filename := "bookden-export-" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/json")

	if err := tc.exporter.ExportJSON(c.Writer); err != nil {
		respondInternalError(c, err, "export json")
	}
}

// ExportCSV streams the catalog as a CSV download.
// GET /api/export/csv
func (tc *TransferController) ExportCSV(c *gin.Context) {
	filename := "bookden-export-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv")

	if err := tc.exporter.ExportCSV(c.Writer); err != nil {
		respondInternalError(c, err, "export csv")
	}
}

// Import ingests an uploaded JSON or CSV file. The format is picked
// from the file extension, falling back to the format query parameter.
// POST /api/import
func (tc *TransferController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if format == "" {
		format = strings.ToLower(c.Query("format"))
	}

	var summary *transfer.Summary
	switch format {
	case "json":
		summary, err = tc.importer.ImportJSON(file)
	case "csv":
		summary, err = tc.importer.ImportCSV(file)
	default:
		respondBadRequest(c, "unsupported format: expected json or csv")
		return
	}
	if err != nil {
		respondBadRequest(c, "could not parse upload: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created": summary.Created,
		"skipped": summary.Skipped,
		"errors":  summary.Messages(),
	})
}
