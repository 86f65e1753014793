package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maktub/internal/store/repository"
)

// Header rows served ahead of the data rows. Readers skip row zero, so
// these exist for humans inspecting the raw payload.
var sheetHeaders = map[string][]string{
	"Submissions": {
		"المعرف", "التاريخ", "", "النوع", "الجهة", "الموضوع", "المحتوى", "",
		"رابط الخطاب", "حالة المراجعة", "حالة الإرسال", "", "اسم المراجع",
		"ملاحظات المراجعة", "الكاتب",
	},
	"Whitelist": {
		"البريد الإلكتروني", "الدور", "الحالة", "أضيف بواسطة", "تاريخ الإضافة",
	},
	"Settings": {
		"", "نوع الخطاب", "صفة المستلم", "", "", "", "الأسلوب",
	},
}

// SheetsHandler serves the positional values projection of each sheet.
type SheetsHandler struct {
	letters   *repository.LetterRepository
	whitelist *repository.WhitelistRepository
	settings  *repository.SettingsRepository
	logger    *zap.Logger
}

func NewSheetsHandler(letters *repository.LetterRepository, whitelist *repository.WhitelistRepository, settings *repository.SettingsRepository, logger *zap.Logger) *SheetsHandler {
	return &SheetsHandler{
		letters:   letters,
		whitelist: whitelist,
		settings:  settings,
		logger:    logger,
	}
}

// Values serves GET /sheets/:name/values as {"values": [[...], ...]}.
func (h *SheetsHandler) Values(c *gin.Context) {
	name := c.Param("name")
	header, ok := sheetHeaders[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sheet: " + name})
		return
	}

	rows, err := h.rowsFor(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("failed to load sheet values",
			zap.String("sheet", name),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sheet values"})
		return
	}

	values := make([][]string, 0, len(rows)+1)
	values = append(values, header)
	values = append(values, rows...)
	c.JSON(http.StatusOK, gin.H{"values": values})
}

func (h *SheetsHandler) rowsFor(ctx context.Context, name string) ([][]string, error) {
	switch name {
	case "Submissions":
		return h.letters.ValuesRows(ctx)
	case "Whitelist":
		return h.whitelist.ValuesRows(ctx)
	default:
		return h.settings.ValuesRows(ctx)
	}
}
