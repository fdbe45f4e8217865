package dialog

import (
	"fmt"
	"strings"

	"orders-bot/pkg/models"
)

func (e *Engine) welcomeMessage() string {
	return fmt.Sprintf("¡Hola! 👋 Soy el asistente virtual de *%s*.\n\n"+
		"¿En qué puedo ayudarte hoy?\n\n"+
		"Escribe:\n"+
		"• *Menu* - Para ver nuestros productos\n"+
		"• *Pedido* - Para realizar un nuevo pedido\n"+
		"• *Ayuda* - Para ver más opciones", e.business.Name)
}

func (e *Engine) menuMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ *Menú de %s*\n\n", e.business.Name)
	for _, item := range e.catalog.Items() {
		fmt.Fprintf(&b, "*%d.* %s - $%.0f\n", item.ID, item.Name, item.Price)
		fmt.Fprintf(&b, "   _%s_\n\n", item.Description)
	}
	b.WriteString("🛒 Para hacer un pedido, escribe *pedido*")
	return b.String()
}

func (e *Engine) contactMessage() string {
	return fmt.Sprintf("📞 *Contacto*\n\n*%s*\n📱 Teléfono: %s\n📍 Dirección: %s\n\nHorario de atención:\n%s",
		e.business.Name, e.business.Phone, e.business.Address, e.business.Hours)
}

func (e *Engine) hoursMessage() string {
	return fmt.Sprintf("🕒 *Horario de Atención*\n\n%s\n\n"+
		"Para realizar un pedido fuera de horario, puedes hacerlo por este medio y lo atenderemos a la brevedad.",
		e.business.Hours)
}

func (e *Engine) locationMessage() string {
	return fmt.Sprintf("📍 *Nuestra Ubicación*\n\n%s\n\n¡Te esperamos!", e.business.Address)
}

func unknownMessage(command string) string {
	return fmt.Sprintf("🤔 No estoy seguro de cómo ayudarte con \"%s\".\n\n"+
		"Escribe *ayuda* para ver las opciones disponibles.", command)
}

const (
	askNameMessage = "👋 ¡Perfecto! Vamos a crear un nuevo pedido.\n\nPor favor, escribe tu *nombre completo*:"
	askItemMessage = "📝 Por favor, escribe el *número* del producto que deseas:"

	invalidItemMessage     = "❌ Número de producto inválido. Por favor, elige un número de la lista:"
	invalidQuantityMessage = "❌ Por favor, ingresa una cantidad válida (número mayor a 0):"
	answerYesNoMessage     = "❌ Por favor, responde con *Sí* o *No*:"

	orderFailedMessage  = "❌ Ocurrió un error al guardar tu pedido. Por favor, inténtalo de nuevo."
	statusPromptMessage = "🔍 Por favor, escribe el número de pedido que deseas consultar:"

	adminDeniedMessage = "❌ No tienes permisos para ejecutar este comando."
	adminHelpMessage   = "📋 *Comandos de Administración*\n\n" +
		"• *admin pedidos* - Ver pedidos recientes\n" +
		"• *admin estadisticas* - Ver estadísticas\n" +
		"• *admin ayuda* - Mostrar esta ayuda"
	noRecentOrdersMessage = "📭 No hay pedidos recientes."
)

func askQuantityMessage(item models.CatalogItem) string {
	return fmt.Sprintf("🛒 Has seleccionado: *%s*\n\n¿Cuántas unidades deseas?", item.Name)
}

func orderSummaryMessage(draft *DraftOrder) string {
	var b strings.Builder
	b.WriteString("📝 *Resumen del Pedido*\n\n")
	for i, item := range draft.Items {
		fmt.Fprintf(&b, "%d. %dx %s - $%.0f\n", i+1, item.Quantity, item.Name, item.Subtotal())
	}
	fmt.Fprintf(&b, "\n*Total: $%.0f*\n\n", draft.Total())
	b.WriteString("¿Deseas agregar algo más al pedido? (Sí/No)")
	return b.String()
}

func adminNewOrderMessage(order models.Order) string {
	return fmt.Sprintf("Nuevo pedido #%s recibido de %s por $%.2f",
		order.OrderNumber, order.CustomerName, order.TotalAmount)
}

func recentOrdersMessage(orders []models.Order) string {
	var b strings.Builder
	b.WriteString("📋 *Últimos Pedidos*\n\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "*#%s* - %s\n", order.OrderNumber, order.CustomerName)
		fmt.Fprintf(&b, "📅 %s\n", order.CreatedAt.Format("02/01/2006 15:04"))
		fmt.Fprintf(&b, "🛒 %d productos - $%.2f\n", len(order.Items), order.TotalAmount)
		fmt.Fprintf(&b, "📊 Estado: %s\n\n", models.StatusLabel(order.Status))
	}
	return b.String()
}

func statsMessage(stats models.OrderStats) string {
	var b strings.Builder
	b.WriteString("📊 *Estadísticas*\n\n")
	for _, st := range stats.Stats {
		fmt.Fprintf(&b, "*%s*\n", models.StatusLabel(st.Status))
		fmt.Fprintf(&b, "  • Cantidad: %d\n", st.Count)
		fmt.Fprintf(&b, "  • Total: $%.2f\n\n", st.TotalAmount)
	}
	b.WriteString("*Totales*\n")
	fmt.Fprintf(&b, "  • Pedidos: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "  • Ingresos: $%.2f", stats.TotalRevenue)
	return b.String()
}
