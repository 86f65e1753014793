package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maktub/internal/store/service"
)

// ActionHandler serves the action POST endpoint. Requests arrive either
// form-encoded or as JSON; both carry an `action` field plus the action's
// parameters as flat string values.
type ActionHandler struct {
	auth      *service.AuthService
	whitelist *service.WhitelistService
	letters   *service.LetterService
	logger    *zap.Logger
}

func NewActionHandler(auth *service.AuthService, whitelist *service.WhitelistService, letters *service.LetterService, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{
		auth:      auth,
		whitelist: whitelist,
		letters:   letters,
		logger:    logger,
	}
}

// legacyParamAliases maps the field names the original spreadsheet script
// accepted onto the ones the handlers read. Requests may use either
// spelling; the legacy name fills in only when the current one is absent.
var legacyParamAliases = map[string]string{
	"whitelistAction": "operation",
	"targetEmail":     "email",
	"targetRole":      "role",
	"adminEmail":      "requestedBy",
	"name":            "fullName",
	"passwordHash":    "password",
}

func applyLegacyAliases(params map[string]string) {
	for legacy, current := range legacyParamAliases {
		v, ok := params[legacy]
		if !ok {
			continue
		}
		if _, taken := params[current]; !taken {
			params[current] = v
		}
	}
}

// bindParams flattens the request body into string parameters. Only keys
// present in the request appear in the result, so presence checks work
// for optional fields.
func bindParams(c *gin.Context) (map[string]string, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		params := make(map[string]string, len(raw))
		for k, v := range raw {
			switch t := v.(type) {
			case string:
				params[k] = t
			case bool:
				params[k] = strconv.FormatBool(t)
			case float64:
				params[k] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		}
		applyLegacyAliases(params)
		return params, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	params := make(map[string]string, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	applyLegacyAliases(params)
	return params, nil
}

func respondOK(c *gin.Context, message string, extras gin.H) {
	body := gin.H{
		"success":   true,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range extras {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondErr(c *gin.Context, err error) {
	body := gin.H{
		"success":   false,
		"message":   err.Error(),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	var coded *service.CodedError
	if errors.As(err, &coded) {
		body["code"] = coded.Code
	}
	c.JSON(http.StatusOK, body)
}

// Handle dispatches on the action name.
func (h *ActionHandler) Handle(c *gin.Context) {
	params, err := bindParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "malformed request body",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	action := params["action"]
	h.logger.Info("action request", zap.String("action", action))

	switch action {
	case "login":
		h.login(c, params)
	case "signup":
		h.signup(c, params)
	case "checkGoogleAuth":
		h.checkGoogleAuth(c, params)
	case "manageWhitelist":
		h.manageWhitelist(c, params)
	case "updateReviewStatus":
		h.updateReviewStatus(c, params)
	case "deleteLetter":
		h.deleteLetter(c, params)
	default:
		respondErr(c, errors.New("إجراء غير معروف: "+action))
	}
}

func (h *ActionHandler) login(c *gin.Context, params map[string]string) {
	user, token, err := h.auth.Login(c.Request.Context(), params["email"], params["password"])
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "تم تسجيل الدخول بنجاح", gin.H{"user": user, "token": token})
}

func (h *ActionHandler) signup(c *gin.Context, params map[string]string) {
	user, token, err := h.auth.Signup(c.Request.Context(),
		params["fullName"], params["email"], params["password"], params["username"])
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "تم إنشاء الحساب بنجاح", gin.H{"user": user, "token": token})
}

func (h *ActionHandler) checkGoogleAuth(c *gin.Context, params map[string]string) {
	user, token, err := h.auth.CheckGoogleAuth(c.Request.Context(),
		params["email"], params["fullName"], params["imageUrl"])
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "تم تسجيل الدخول بنجاح", gin.H{"user": user, "token": token})
}

func (h *ActionHandler) manageWhitelist(c *gin.Context, params map[string]string) {
	ctx := c.Request.Context()
	actorRole := h.whitelist.RoleFor(ctx, params["requestedBy"])

	switch params["operation"] {
	case "list":
		entries, err := h.whitelist.List(ctx, actorRole)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, "", gin.H{"entries": entries})
	case "add":
		if err := h.whitelist.Add(ctx, actorRole, params["email"], params["role"], params["requestedBy"]); err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, "تمت إضافة البريد الإلكتروني إلى القائمة", nil)
	case "remove":
		if err := h.whitelist.Remove(ctx, actorRole, params["email"]); err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, "تمت إزالة البريد الإلكتروني من القائمة", nil)
	case "updateStatus":
		if err := h.whitelist.UpdateStatus(ctx, actorRole, params["email"], params["status"]); err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, "تم تحديث حالة البريد الإلكتروني", nil)
	default:
		respondErr(c, errors.New("عملية غير معروفة: "+params["operation"]))
	}
}

func (h *ActionHandler) updateReviewStatus(c *gin.Context, params map[string]string) {
	ctx := c.Request.Context()
	actorRole := h.whitelist.RoleFor(ctx, params["requestedBy"])

	var content *string
	if v, ok := params["letterContent"]; ok {
		content = &v
	}

	err := h.letters.UpdateReviewStatus(ctx, actorRole,
		params["letterId"], params["status"], params["reviewerName"], params["notes"], content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "تم تحديث حالة المراجعة", nil)
}

func (h *ActionHandler) deleteLetter(c *gin.Context, params map[string]string) {
	ctx := c.Request.Context()
	actorRole := h.whitelist.RoleFor(ctx, params["requestedBy"])

	if err := h.letters.DeleteLetter(ctx, actorRole, params["letterId"]); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "تم حذف الخطاب", nil)
}
