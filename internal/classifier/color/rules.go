package color

import "github.com/DRSN-tech/visual-search/internal/imaging"

// HSVRange — прямоугольный диапазон в HSV (диапазоны OpenCV).
type HSVRange struct {
	HMin, SMin, VMin float64
	HMax, SMax, VMax float64
}

// Rule — именованный цвет с набором HSV-диапазонов.
// Circular включает особую проверку красного: hue замыкается по кругу.
type Rule struct {
	Name     string
	Circular bool
	Ranges   []HSVRange
}

// Rules — упорядоченный список правил. Порядок — часть контракта:
// правила проверяются сверху вниз, побеждает первое совпавшее.
var Rules = []Rule{
	{
		Name:     "red",
		Circular: true,
		Ranges: []HSVRange{
			{0, 70, 50, 10, 255, 255},    // чистый красный
			{160, 70, 50, 180, 255, 255}, // глубокий красный
		},
	},
	{Name: "orange", Ranges: []HSVRange{{11, 70, 50, 25, 255, 255}}},
	{Name: "yellow", Ranges: []HSVRange{{26, 70, 50, 34, 255, 255}}},
	{Name: "green", Ranges: []HSVRange{{35, 70, 50, 85, 255, 255}}},
	{Name: "blue", Ranges: []HSVRange{{86, 70, 50, 130, 255, 255}}},
	{Name: "purple", Ranges: []HSVRange{{131, 70, 50, 155, 255, 255}}},
	{Name: "pink", Ranges: []HSVRange{{156, 70, 50, 170, 255, 255}}},
	{Name: "brown", Ranges: []HSVRange{{0, 30, 20, 20, 200, 100}}},
	{Name: "white", Ranges: []HSVRange{{0, 0, 220, 180, 30, 255}}},
	{Name: "black", Ranges: []HSVRange{{0, 0, 0, 180, 30, 40}}},
	{Name: "gray", Ranges: []HSVRange{{0, 0, 40, 180, 30, 220}}},
	{Name: "beige", Ranges: []HSVRange{{20, 10, 180, 40, 30, 255}}},
}

// Match проверяет попадание пикселя в правило.
func (r Rule) Match(p imaging.HSV) bool {
	if r.Circular {
		return ((p.H >= 0 && p.H <= 10) || (p.H >= 160 && p.H <= 180)) &&
			p.S >= 70 && p.V >= 50
	}

	for _, rng := range r.Ranges {
		if p.H >= rng.HMin && p.H <= rng.HMax &&
			p.S >= rng.SMin && p.S <= rng.SMax &&
			p.V >= rng.VMin && p.V <= rng.VMax {
			return true
		}
	}

	return false
}
