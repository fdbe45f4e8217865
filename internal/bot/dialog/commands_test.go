package dialog

import "testing"

func TestNormalizeCommand(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hola!!", "hola"},
		{"  MENU  ", "menu"},
		{"¿Pedido?", "pedido"},
		{"admin pedidos", "admin pedidos"},
		{"Dónde están", "dónde están"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeCommand(tc.in); got != tc.want {
			t.Errorf("normalizeCommand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRouteCommand(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hola", cmdGreeting},
		{"inicio", cmdGreeting},
		{"start", cmdGreeting},
		{"menu", cmdMenu},
		{"carta", cmdMenu},
		{"pedido", cmdOrder},
		{"comprar", cmdOrder},
		{"estado", cmdStatus},
		{"mipedido", cmdStatus},
		{"contacto", cmdContact},
		{"ayuda", cmdContact},
		{"horario", cmdHours},
		{"ubicacion", cmdLocation},
		{"admin", cmdAdmin},
		{"admin pedidos", cmdAdmin},
		{"admin estadisticas", cmdAdmin},
		{"administrador", cmdAdmin},
		{"qwerty", cmdUnknown},
		{"", cmdUnknown},
	}
	for _, tc := range cases {
		if got := routeCommand(tc.in); got != tc.want {
			t.Errorf("routeCommand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
