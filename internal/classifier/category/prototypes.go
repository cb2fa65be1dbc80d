package category

// Prototype — категория и её текстовые описания для zero-shot сравнения.
type Prototype struct {
	Name    string
	Phrases []string
}

// Prototypes — фиксированный упорядоченный набор категорий.
// Порядок определяет раскладку дескрипторов в общем softmax.
var Prototypes = []Prototype{
	{
		Name: "tops",
		Phrases: []string{
			"a t-shirt",
			"a casual shirt",
			"a formal shirt",
			"a blouse",
			"a sweater",
			"a tank top",
			"a crop top",
			"a polo shirt",
		},
	},
	{
		Name: "bottoms",
		Phrases: []string{
			"pants",
			"jeans",
			"trousers",
			"shorts",
			"a skirt",
			"denim pants",
			"cargo pants",
			"casual pants",
		},
	},
	{
		Name: "dresses",
		Phrases: []string{
			"a dress",
			"a maxi dress",
			"a mini dress",
			"an evening dress",
			"a casual dress",
			"a formal dress",
			"a cocktail dress",
		},
	},
	{
		Name: "outerwear",
		Phrases: []string{
			"a jacket",
			"a coat",
			"a blazer",
			"a cardigan",
			"a leather jacket",
			"a denim jacket",
			"a winter coat",
		},
	},
	{
		Name: "activewear",
		Phrases: []string{
			"workout clothes",
			"gym clothes",
			"sports clothing",
			"athletic wear",
			"training clothes",
			"yoga clothes",
		},
	},
	{
		Name: "shoes",
		Phrases: []string{
			"shoes",
			"sneakers",
			"boots",
			"sandals",
			"heels",
			"athletic shoes",
			"casual shoes",
			"formal shoes",
		},
	},
	{
		Name: "accessories",
		Phrases: []string{
			"a bag",
			"a handbag",
			"jewelry",
			"a hat",
			"a scarf",
			"a belt",
			"sunglasses",
			"fashion accessories",
		},
	},
}

// Flatten возвращает все фразы подряд в порядке категорий.
func Flatten(prototypes []Prototype) []string {
	var out []string
	for _, p := range prototypes {
		out = append(out, p.Phrases...)
	}
	return out
}
