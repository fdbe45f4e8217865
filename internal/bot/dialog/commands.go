package dialog

import (
	"strings"
	"unicode"
)

// Idle-state commands recognized by the keyword router.
const (
	cmdGreeting = "greeting"
	cmdMenu     = "menu"
	cmdOrder    = "order"
	cmdStatus   = "status"
	cmdContact  = "contact"
	cmdHours    = "hours"
	cmdLocation = "location"
	cmdAdmin    = "admin"
	cmdUnknown  = "unknown"
)

var commandKeywords = map[string]string{
	"hola":   cmdGreeting,
	"inicio": cmdGreeting,
	"start":  cmdGreeting,

	"menu":      cmdMenu,
	"carta":     cmdMenu,
	"productos": cmdMenu,

	"pedido":  cmdOrder,
	"orden":   cmdOrder,
	"comprar": cmdOrder,

	"estado":   cmdStatus,
	"mipedido": cmdStatus,
	"micompra": cmdStatus,

	"contacto": cmdContact,
	"soporte":  cmdContact,
	"ayuda":    cmdContact,

	"horario":  cmdHours,
	"horarios": cmdHours,

	"ubicacion":  cmdLocation,
	"direccion":  cmdLocation,
	"dondeestan": cmdLocation,

	"admin":         cmdAdmin,
	"administrador": cmdAdmin,
}

// normalizeCommand strips punctuation and lowercases the message for
// command recognition. Free-text answers (names) are never normalized.
func normalizeCommand(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}

// routeCommand maps normalized text to a command. The admin command keeps
// its sub-command words, so matching looks at the first word too.
func routeCommand(normalized string) string {
	if cmd, ok := commandKeywords[normalized]; ok {
		return cmd
	}
	first, _, _ := strings.Cut(normalized, " ")
	if commandKeywords[first] == cmdAdmin {
		return cmdAdmin
	}
	return cmdUnknown
}
