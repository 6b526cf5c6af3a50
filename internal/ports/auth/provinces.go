package auth

import "strings"

var provinces = []string{
	"Álava", "Albacete", "Alicante", "Almería", "Asturias", "Ávila", "Badajoz", "Barcelona",
	"Burgos", "Cáceres", "Cádiz", "Cantabria", "Castellón", "Ciudad Real", "Córdoba", "Cuenca",
	"Girona", "Granada", "Guadalajara", "Guipúzcoa", "Huelva", "Huesca", "Islas Baleares", "Jaén",
	"La Coruña", "La Rioja", "Las Palmas", "León", "Lleida", "Lugo", "Madrid", "Málaga", "Murcia",
	"Navarra", "Ourense", "Palencia", "Pontevedra", "Salamanca", "Santa Cruz de Tenerife",
	"Segovia", "Sevilla", "Soria", "Tarragona", "Teruel", "Toledo", "Valencia", "Valladolid",
	"Vizcaya", "Zamora", "Zaragoza", "Ceuta", "Melilla",
}

var provinceIndex = func() map[string]string {
	m := make(map[string]string, len(provinces))
	for _, p := range provinces {
		m[strings.ToLower(p)] = p
	}
	return m
}()

// Provinces devuelve la lista de provincias aceptadas.
func Provinces() []string {
	out := make([]string, len(provinces))
	copy(out, provinces)
	return out
}

// NormalizeProvince devuelve el nombre canónico (case-insensitive) o false.
func NormalizeProvince(s string) (string, bool) {
	p, ok := provinceIndex[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}
