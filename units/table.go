package units

import "sort"

// table maps unit symbols to units. It is built once and never modified.
var table = func() map[string]Unit {
	m := make(map[string]Unit)
	add := func(d Dimension, factor, offset float64, symbols ...string) {
		for _, s := range symbols {
			m[s] = Unit{symbol: symbols[0], dim: d, factor: factor, offset: offset}
		}
	}

	add(Power, 1, 0, "W")
	add(Power, 1e3, 0, "kW")
	add(Power, 1e6, 0, "MW")
	add(Power, 745.69987158227022, 0, "hp")

	add(Temperature, 1, 0, "K")
	add(Temperature, 1, 273.15, "°C")
	add(Temperature, 5.0/9.0, 459.67, "°F")

	add(Mass, 1e-6, 0, "mg")
	add(Mass, 1e-3, 0, "g")
	add(Mass, 1, 0, "kg")
	add(Mass, 1e3, 0, "t")
	add(Mass, 0.028349523125, 0, "oz")
	add(Mass, 0.45359237, 0, "lb")

	add(Length, 1e-3, 0, "mm")
	add(Length, 1e-2, 0, "cm")
	add(Length, 1e-1, 0, "dm")
	add(Length, 1, 0, "m")
	add(Length, 1e3, 0, "km")
	add(Length, 0.0254, 0, "in")
	add(Length, 0.3048, 0, "ft")
	add(Length, 0.9144, 0, "yd")
	add(Length, 1609.344, 0, "mi")
	add(Length, 149597870700, 0, "au")
	add(Length, 9460730472580800, 0, "ly")

	add(Time, 1e-9, 0, "ns")
	add(Time, 1e-6, 0, "μs", "us")
	add(Time, 1e-3, 0, "ms")
	add(Time, 1, 0, "s")
	add(Time, 60, 0, "min")
	add(Time, 3600, 0, "h")
	add(Time, 86400, 0, "day")
	add(Time, 604800, 0, "week")
	add(Time, 31557600, 0, "year")

	add(Area, 1e-6, 0, "mm²")
	add(Area, 1e-4, 0, "cm²")
	add(Area, 1, 0, "m²")
	add(Area, 1e6, 0, "km²")
	add(Area, 0.00064516, 0, "in²")
	add(Area, 0.09290304, 0, "ft²")
	add(Area, 0.83612736, 0, "yd²")
	add(Area, 2589988.110336, 0, "mi²")
	add(Area, 1e4, 0, "ha")
	add(Area, 4046.8564224, 0, "ac")

	add(Volume, 1e-6, 0, "ml")
	add(Volume, 1e-3, 0, "l")
	add(Volume, 1e-6, 0, "cm³")
	add(Volume, 1, 0, "m³")
	add(Volume, 1.6387064e-5, 0, "in³")
	add(Volume, 0.028316846592, 0, "ft³")
	add(Volume, 0.764554857984, 0, "yd³")
	add(Volume, 0.003785411784, 0, "gal")
	return m
}()

var bases = [...]string{
	Power:       "W",
	Temperature: "K",
	Mass:        "kg",
	Length:      "m",
	Time:        "s",
	Area:        "m²",
	Volume:      "m³",
}

// Lookup finds a unit by its symbol. Angle units are not included; use
// ParseAngleUnit for those.
func Lookup(symbol string) (Unit, bool) {
	u, ok := table[symbol]
	return u, ok
}

// BaseUnit returns the unit in which quantities of a dimension are combined.
func BaseUnit(d Dimension) Unit {
	if d == None || int(d) >= len(bases) {
		panic("units: no base unit for " + d.String())
	}
	return table[bases[d]]
}

// IsUnit returns whether s names any unit, including angle units.
func IsUnit(s string) bool {
	if _, ok := table[s]; ok {
		return true
	}
	_, ok := ParseAngleUnit(s)
	return ok
}

// Symbols returns the sorted symbols of all non-angle units.
func Symbols() []string {
	r := make([]string, 0, len(table))
	for k := range table {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
