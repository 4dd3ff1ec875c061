package handlers

import (
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/i18n"
	"github.com/vitacross/vitacross-api/internal/middleware"
)

const legalUpdated = "2026-01-15"

var legalPage = template.Must(template.New("legal").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}"><head><meta charset="utf-8"><title>{{.Title}} - VitaCross</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,"PingFang SC",sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>{{.Title}}</h1>
<p>{{.Updated}}</p>
{{.Body}}
</body></html>`))

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return h.render(c, i18n.MsgPrivacyTitle, i18n.MsgPrivacyBody)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return h.render(c, i18n.MsgTermsTitle, i18n.MsgTermsBody)
}

func (h *LegalHandler) render(c *fiber.Ctx, titleKey, bodyKey string) error {
	lang := middleware.Lang(c)
	p := i18n.Printer(lang)

	var b strings.Builder
	err := legalPage.Execute(&b, map[string]interface{}{
		"Lang":    lang,
		"Title":   p.Sprintf(titleKey),
		"Updated": p.Sprintf(i18n.MsgLastUpdated, legalUpdated),
		// bodies are static markup from the message catalog
		"Body": template.HTML(p.Sprintf(bodyKey)),
	})
	if err != nil {
		return err
	}
	return c.Type("html").SendString(b.String())
}
