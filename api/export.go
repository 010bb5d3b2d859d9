package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler exports the family ledger for offline bookkeeping.
type ExportHandler struct {
	store *store.Store
}

func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// ExportCSV writes the family's work logs as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)

	logs, err := h.store.WorkLogs(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání záznamů")
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel renders the diacritics.
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Osoba", "Datum", "Minuty", "Sazba", "Výdělek", "Srážka", "Aktivita"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "Generování CSV selhalo")
		return
	}
	for _, w := range logs {
		row := []string{
			fmt.Sprintf("%d", w.ID),
			w.Person,
			w.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", w.WorkedMinutes),
			fmt.Sprintf("%d", w.HourlyRate),
			fmt.Sprintf("%d", w.Earnings),
			fmt.Sprintf("%d", w.Deduction),
			w.Activity,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Generování CSV selhalo")
			return
		}
	}
	writer.Flush()

	filename := fmt.Sprintf("workmm_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel writes work logs and finances as a two-sheet workbook.
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	familyID := middleware.GetFamilyID(c)

	logs, err := h.store.WorkLogs(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání záznamů")
		return
	}
	finances, err := h.store.Finances(familyID)
	if err != nil {
		RespondError(c, err, "Chyba při načítání financí")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	workSheet := "Práce"
	f.SetSheetName("Sheet1", workSheet)
	workHeaders := []string{"ID", "Osoba", "Datum", "Minuty", "Sazba", "Výdělek", "Srážka", "Aktivita"}
	for i, head := range workHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(workSheet, cell, head)
	}
	for row, w := range logs {
		values := []interface{}{w.ID, w.Person, w.Date.Format("2006-01-02"), w.WorkedMinutes, w.HourlyRate, w.Earnings, w.Deduction, w.Activity}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(workSheet, cell, v)
		}
	}

	finSheet := "Finance"
	f.NewSheet(finSheet)
	finHeaders := []string{"ID", "Typ", "Účet", "Částka", "Měna", "Zápočet", "Výsledná částka", "Kategorie", "Popis", "Datum"}
	for i, head := range finHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(finSheet, cell, head)
	}
	for row, fin := range finances {
		values := []interface{}{fin.ID, fin.Type, fin.Account, fin.Amount, fin.Currency, fin.OffsetAmount, fin.FinalAmount, fin.Category, fin.Description, fin.Date.Format("2006-01-02")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(finSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "Generování sešitu selhalo")
		return
	}

	filename := fmt.Sprintf("workmm_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
