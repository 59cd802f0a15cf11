package order

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/ctxutil"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/response"
	orderapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/order"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ledgerHeaders = []string{
	"Request ID", "Order ID", "Order Status", "Order Total", "Customer", "Customer Email",
	"Reason", "Status", "Admin Note", "Processed By", "Processed At", "Requested At",
}

// ExportCancellationRequests GET /api/v1/orders/cancellations/export?status=
func (c *Controller) ExportCancellationRequests(ctx *gin.Context) {
	items, err := c.orderService.ListCancellationRequests(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Query("status"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	file, err := buildLedgerWorkbook(items)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	// 先写入缓冲区，失败时还能返回 JSON 错误
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		response.HandleAppError(ctx, fmt.Errorf("write cancellation workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("cancellations-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func buildLedgerWorkbook(items []orderapp.CancellationListItem) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Cancellations")
	if err != nil {
		return nil, fmt.Errorf("create cancellation sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range ledgerHeaders {
		header.AddCell().SetValue(h)
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetValue(item.ID)
		row.AddCell().SetValue(item.OrderID)
		if item.Order != nil {
			row.AddCell().SetValue(item.Order.Status)
			row.AddCell().SetFloat(item.Order.TotalPrice)
		} else {
			row.AddCell().SetValue("removed")
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(item.User.Name)
		row.AddCell().SetValue(item.User.Email)
		row.AddCell().SetValue(item.Reason)
		row.AddCell().SetValue(item.Status)
		row.AddCell().SetValue(item.AdminNote)
		if item.ProcessedBy != nil {
			row.AddCell().SetValue(firstNonEmpty(item.ProcessedBy.Name, item.ProcessedBy.ID))
		} else {
			row.AddCell().SetValue("")
		}
		if item.ProcessedAt != nil {
			row.AddCell().SetValue(item.ProcessedAt.Format("2006-01-02 15:04:05"))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
