package query

// ---------- Aritmética de paginación ----------
// Funciones puras: no recortan ni corrigen argumentos fuera de rango.

// TotalPages = ceil(totalItems / pageSize); 0 si no hay elementos.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// StartIndex es el índice (base 1) del primer elemento de la página.
func StartIndex(pageNumber, pageSize int) int {
	return (pageNumber-1)*pageSize + 1
}

// EndIndex es el índice (base 1) del último elemento de la página: min(page*size, total).
func EndIndex(pageNumber, pageSize, totalItems int) int {
	end := pageNumber * pageSize
	if end > totalItems {
		return totalItems
	}
	return end
}

// ClampPage ajusta una página pedida al rango [1, totalPages]. Lo usan los llamadores
// antes de pedir una página, nunca las funciones anteriores.
func ClampPage(pageNumber, totalPages int) int {
	if totalPages > 0 && pageNumber > totalPages {
		return totalPages
	}
	if pageNumber < 1 {
		return 1
	}
	return pageNumber
}
