package fakeapi

import "fmt"

var (
	especies = []string{"Canino", "Felino", "Ave", "Conejo"}
	razas    = map[string][]string{
		"Canino": {"Labrador", "Pastor Alemán", "Mestizo"},
		"Felino": {"Siamés", "Persa", "Común europeo"},
		"Ave":    {"Periquito", "Canario"},
		"Conejo": {"Belier", "Enano"},
	}
	nombres   = []string{"Luna", "Max", "Rocky", "Nala", "Toby", "Kira", "Simba", "Coco", "Lola", "Bruno"}
	apellidos = []string{"García", "Rodríguez", "Martínez", "López", "Sánchez", "Pérez"}
	historias = []string{"Vacunación anual al día", "Otitis externa tratada", "Control de peso", "Cirugía de esterilización", "Dermatitis alérgica"}
)

// DemoRecords genera datos deterministas de demostración para cada colección.
func DemoRecords() map[string][]map[string]any {
	out := map[string][]map[string]any{}

	for i := 1; i <= 30; i++ {
		out["clientes"] = append(out["clientes"], map[string]any{
			"id_cliente": i,
			"nombre":     nombres[i%len(nombres)],
			"apellido":   apellidos[i%len(apellidos)],
			"cedula":     fmt.Sprintf("%010d", 1700000000+i),
			"telefono":   fmt.Sprintf("09%08d", 12345678+i),
			"email":      fmt.Sprintf("cliente%d@correo.ec", i),
			"direccion":  fmt.Sprintf("Av. Amazonas %d", 100+i),
			"foto":       fmt.Sprintf("https://cdn.clinica.test/clientes/%d.jpg", i),
		})
	}

	for i := 1; i <= 60; i++ {
		especie := especies[i%len(especies)]
		rz := razas[especie]
		out["pacientes"] = append(out["pacientes"], map[string]any{
			"id_paciente":      i,
			"nombre":           nombres[(i*3)%len(nombres)],
			"especie":          especie,
			"raza":             rz[i%len(rz)],
			"sexo":             []string{"Macho", "Hembra"}[i%2],
			"edad":             float64(i % 16),
			"peso":             fmt.Sprintf("%.1f", 2.5+float64(i%20)*1.5),
			"historia_clinica": historias[i%len(historias)],
			"id_cliente":       1 + i%30,
			"foto":             fmt.Sprintf("https://cdn.clinica.test/pacientes/%d.jpg", i),
		})
	}

	roles := []string{"Veterinario", "Recepción", "Administrador"}
	for i := 1; i <= 8; i++ {
		out["usuarios"] = append(out["usuarios"], map[string]any{
			"id_usuario": i,
			"nombre":     fmt.Sprintf("%s %s", nombres[i%len(nombres)], apellidos[i%len(apellidos)]),
			"usuario":    fmt.Sprintf("user%d", i),
			"rol":        roles[i%len(roles)],
			"email":      fmt.Sprintf("user%d@clinica.test", i),
			"activo":     i%4 != 0,
		})
	}

	metodos := []string{"Efectivo", "Tarjeta", "Transferencia"}
	servicios := []string{"Consulta general", "Vacuna antirrábica", "Desparasitación", "Baño y peluquería", "Consulta de urgencias"}
	for i := 1; i <= 45; i++ {
		out["ventas"] = append(out["ventas"], map[string]any{
			"id_venta":    i,
			"descripcion": servicios[i%len(servicios)],
			"total":       float64(10 + (i*7)%90),
			"metodo_pago": metodos[i%len(metodos)],
			"estado":      []string{"Pagada", "Pendiente"}[i%2],
			"facturada":   i%3 == 0,
			"id_cliente":  1 + i%30,
		})
	}

	tipos := []string{"Consulta", "Cirugía", "Vacunación"}
	for i := 1; i <= 25; i++ {
		out["eventos"] = append(out["eventos"], map[string]any{
			"id_evento":   i,
			"titulo":      fmt.Sprintf("%s paciente %d", tipos[i%len(tipos)], 1+i%60),
			"descripcion": historias[i%len(historias)],
			"tipo":        tipos[i%len(tipos)],
			"estado":      []string{"Programado", "Completado", "Cancelado"}[i%3],
			"fecha":       fmt.Sprintf("2024-06-%02dT%02d:00:00Z", 1+i%28, 8+i%9),
			"id_paciente": 1 + i%60,
			"id_usuario":  1 + i%8,
		})
	}

	return out
}
