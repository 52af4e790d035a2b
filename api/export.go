package api

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"grocery/middleware"
	"grocery/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出本周购物记录
type ExportHandler struct {
	ledger LedgerService
	loc    *time.Location
}

// NewExportHandler 创建导出处理器
func NewExportHandler(ledger LedgerService, loc *time.Location) *ExportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{ledger: ledger, loc: loc}
}

// ExportExcel 导出本周购物记录为 Excel，末尾附合计
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	summary, ok := h.weekSummary(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "This Week"
	f.SetSheetName("Sheet1", sheetName)

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"16A34A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 10)

	headers := []string{"ID", "Time", "Category", "Shopper", "Amount"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, item := range summary.Items {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.Time.In(h.loc).Format(displayTimeLayout))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), item.Shopper)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.Amount)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
	}

	// 汇总行：已花费、预算、剩余
	totals := []struct {
		label string
		value int
	}{
		{"Spent", summary.Spent},
		{"Budget", summary.Budget},
		{"Remaining", summary.Remaining},
	}
	for i, t := range totals {
		row := len(summary.Items) + 2 + i
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.label)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.value)
		f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), summaryStyle)
	}

	filename := fmt.Sprintf("grocery_week_%s.xlsx", summary.Start.Format("2006-01-02"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("生成 Excel 失败: %v", err)
		c.String(http.StatusInternalServerError, "Could not build the spreadsheet")
		return
	}
}

// ExportCSV 导出本周购物记录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	summary, ok := h.weekSummary(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"ID", "Time", "Category", "Shopper", "Amount"})
	for _, item := range summary.Items {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Time.In(h.loc).Format(displayTimeLayout),
			item.Category,
			item.Shopper,
			strconv.Itoa(item.Amount),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		c.String(http.StatusInternalServerError, "Could not build the CSV file")
		return
	}

	filename := fmt.Sprintf("grocery_week_%s.csv", summary.Start.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) weekSummary(c *gin.Context) (*service.WeekSummary, bool) {
	summary, err := h.ledger.WeekSummary(c.Request.Context(), middleware.GetCurrentUsername(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusBadRequest, "No budget is linked to your account.")
		} else {
			log.Printf("导出查询失败: %v", err)
			c.String(http.StatusInternalServerError, "Could not load this week's purchases")
		}
		return nil, false
	}
	return summary, true
}
