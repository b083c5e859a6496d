package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warelog/warelog/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// userAgentDisplayLen is how many characters of the user agent are shown in
// the table; the full value stays available via the title attribute.
const userAgentDisplayLen = 30

// actionIcons maps well-known activity actions to icon classes. Anything
// unrecognized falls back to iconDefault.
var actionIcons = map[string]string{
	"login":          "icon-login",
	"logout":         "icon-logout",
	"create_account": "icon-plus-circle",
	"update_account": "icon-pencil",
	"create_order":   "icon-cart",
	"ship_order":     "icon-truck",
	"adjust_stock":   "icon-layers",
	"export":         "icon-download",
}

const iconDefault = "icon-activity"

func actionIcon(action string) string {
	if icon, ok := actionIcons[action]; ok {
		return icon
	}
	return iconDefault
}

// truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// formatAmount renders a balance with two decimals and thousands separators.
func formatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return sign + b.String() + "." + fracPart
}

func amountClass(d decimal.Decimal) string {
	switch d.Sign() {
	case -1:
		return "amount-negative"
	case 1:
		return "amount-positive"
	}
	return "amount-zero"
}

func typeBadgeClass(t domain.AccountType) string {
	return "badge-type-" + string(t)
}

func statusBadgeClass(s domain.AccountStatus) string {
	return "badge-status-" + string(s)
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("warelog").Funcs(template.FuncMap{
		"actionIcon":       actionIcon,
		"truncate":         truncate,
		"formatAmount":     formatAmount,
		"amountClass":      amountClass,
		"typeBadgeClass":   typeBadgeClass,
		"statusBadgeClass": statusBadgeClass,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web.parseTemplates: %w", err)
	}

	return tmpl, nil
}
